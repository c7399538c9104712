package triggers

import (
	"fmt"
	"strings"

	"github.com/banshee-data/vetoplot/internal/config"
	"github.com/banshee-data/vetoplot/internal/trigstore"
)

// EndTimeField holds the per-trigger geocentric end time used to apply vetoes.
const EndTimeField = "end_time_gc"

var networkSNRFields = map[config.SNRKind]string{
	config.SNRCoherent:   "coherent_snr",
	config.SNRNull:       "null_snr",
	config.SNRReweighted: "reweighted_snr",
}

var vetoFields = map[config.VetoKind]string{
	config.VetoStandard: "chisq",
	config.VetoBank:     "bank_chisq",
	config.VetoAuto:     "cont_chisq",
}

// SNRPath returns the dataset path of a network or single-detector SNR.
// Coincident SNR has no single path; see Load.
func SNRPath(kind config.SNRKind, ifo string) (string, error) {
	if kind == config.SNRSingle {
		if ifo == "" {
			return "", config.ErrIFORequired
		}
		return SingleSNRPath(ifo), nil
	}
	field, ok := networkSNRFields[kind]
	if !ok {
		return "", fmt.Errorf("no dataset for SNR type %q", kind)
	}
	return trigstore.DatasetPath(trigstore.NetworkGroup, field), nil
}

// SingleSNRPath returns the dataset path of one detector's SNR. The field
// carries the lower-cased detector code, so H1 reads "H1/snr_h1".
func SingleSNRPath(ifo string) string {
	return trigstore.DatasetPath(ifo, "snr_"+strings.ToLower(ifo))
}

// VetoPaths returns the dataset paths of a detector's veto statistic and of
// its degrees of freedom.
func VetoPaths(kind config.VetoKind, ifo string) (value, dof string, err error) {
	field, ok := vetoFields[kind]
	if !ok {
		return "", "", fmt.Errorf("no dataset for veto type %q", kind)
	}
	if ifo == "" {
		return "", "", config.ErrIFORequired
	}
	return trigstore.DatasetPath(ifo, field), trigstore.DatasetPath(ifo, field+"_dof"), nil
}
