// Package laboratorio tracks collected samples and the batches (lotes) they
// are grouped into, either for bench processing or for transfer to a partner
// laboratory.
package laboratorio

import (
	"time"

	"github.com/labsuite/labsuite/internal/platform/registry"
)

// Sample is a collected specimen. Code holds the barcode and Label the
// patient name.
type Sample struct {
	registry.Record
	PatientID   string `json:"patient_id"`
	Bancada     string `json:"bancada"`
	Material    string `json:"material"`
	CollectedAt string `json:"collected_at"`
	BatchID     string `json:"batch_id,omitempty"`
}

func (s *Sample) Categories() map[string]string {
	return map[string]string{"bancada": s.Bancada, "material": s.Material}
}

// Batch kinds.
const (
	KindProcessing = "processamento"
	KindTransfer   = "transferencia"
)

// Batch groups samples. Transfer batches name a destination and are
// dispatched once.
type Batch struct {
	registry.Record
	Kind         string     `json:"kind"`
	Bancada      string     `json:"bancada,omitempty"`
	Destination  string     `json:"destination,omitempty"`
	SampleIDs    []string   `json:"sample_ids"`
	Dispatched   bool       `json:"dispatched"`
	DispatchedAt *time.Time `json:"dispatched_at,omitempty"`
}

func (b *Batch) Categories() map[string]string {
	return map[string]string{"kind": b.Kind, "bancada": b.Bancada, "destination": b.Destination}
}
