package triggers

import (
	"errors"
	"testing"

	"github.com/banshee-data/vetoplot/internal/config"
)

func TestSNRPath(t *testing.T) {
	tests := []struct {
		kind config.SNRKind
		ifo  string
		want string
	}{
		{config.SNRCoherent, "", "network/coherent_snr"},
		{config.SNRNull, "H1", "network/null_snr"},
		{config.SNRReweighted, "", "network/reweighted_snr"},
		{config.SNRSingle, "H1", "H1/snr_h1"},
		{config.SNRSingle, "V1", "V1/snr_v1"},
	}
	for _, tt := range tests {
		got, err := SNRPath(tt.kind, tt.ifo)
		if err != nil {
			t.Fatalf("SNRPath(%q, %q) error: %v", tt.kind, tt.ifo, err)
		}
		if got != tt.want {
			t.Errorf("SNRPath(%q, %q) = %q, want %q", tt.kind, tt.ifo, got, tt.want)
		}
	}

	if _, err := SNRPath(config.SNRSingle, ""); !errors.Is(err, config.ErrIFORequired) {
		t.Errorf("single SNR without detector: got %v, want ErrIFORequired", err)
	}
	if _, err := SNRPath(config.SNRCoincident, "H1"); err == nil {
		t.Error("coincident SNR has no single dataset path")
	}
}

func TestVetoPaths(t *testing.T) {
	tests := []struct {
		kind  config.VetoKind
		value string
		dof   string
	}{
		{config.VetoStandard, "L1/chisq", "L1/chisq_dof"},
		{config.VetoBank, "L1/bank_chisq", "L1/bank_chisq_dof"},
		{config.VetoAuto, "L1/cont_chisq", "L1/cont_chisq_dof"},
	}
	for _, tt := range tests {
		value, dof, err := VetoPaths(tt.kind, "L1")
		if err != nil {
			t.Fatalf("VetoPaths(%q) error: %v", tt.kind, err)
		}
		if value != tt.value || dof != tt.dof {
			t.Errorf("VetoPaths(%q) = %q, %q; want %q, %q", tt.kind, value, dof, tt.value, tt.dof)
		}
	}

	if _, _, err := VetoPaths(config.VetoStandard, ""); !errors.Is(err, config.ErrIFORequired) {
		t.Errorf("veto without detector: got %v, want ErrIFORequired", err)
	}
}
