package dataset

import (
	"fmt"
	"strings"
)

// MaxRequestNameLength bounds every derived request name.
const MaxRequestNameLength = 90

// NameStyle selects how a request name is derived from an identifier.
type NameStyle string

const (
	// NameShort keeps a few meaningful tokens and is the default.
	NameShort NameStyle = "short"
	// NameFull keeps the whole identifier, minus the tier for simulation.
	NameFull NameStyle = "full"
)

// ParseNameStyle validates a naming style string.
func ParseNameStyle(s string) (NameStyle, error) {
	switch NameStyle(strings.ToLower(s)) {
	case NameShort, "":
		return NameShort, nil
	case NameFull:
		return NameFull, nil
	default:
		return "", fmt.Errorf("invalid naming style %q: must be 'short' or 'full'", s)
	}
}

// campaignTags are removed from simulated primary names by the short style.
var campaignTags = []string{
	"TuneCP5",
	"13p6TeV",
	"pythia8",
	"amcatnloFXFX",
	"RunIII2024Summer24NanoAODv15",
	"150X_mcRun3_2024_realistic_v2",
}

// RequestName parses raw and derives its submission request name using the
// given style and dataset kind.
func RequestName(raw string, kind Kind, style NameStyle) (string, error) {
	id, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return id.RequestName(kind, style), nil
}

// RequestName derives the submission request name of id.
func (id Identifier) RequestName(kind Kind, style NameStyle) string {
	if style == NameFull {
		return FullName(id, kind)
	}
	return ShortName(id, kind)
}

// FullName keeps most of the identifier. Simulation drops the NANOAODSIM tier
// and joins the rest with underscores; data joins the primary name with the
// processed name cut before its campaign suffix.
func FullName(id Identifier, kind Kind) string {
	if kind == KindMC {
		name := strings.Trim(id.Raw, "/")
		name = strings.TrimSuffix(name, "NANOAODSIM")
		name = strings.TrimRight(name, "/")
		return truncate(strings.ReplaceAll(name, "/", "_"))
	}

	clean := id.Processed
	if before, _, ok := strings.Cut(clean, "_RunIII"); ok {
		clean = before
	} else if before, _, ok := strings.Cut(clean, "_NANOAOD"); ok {
		clean = before + "_NANOAOD"
	}
	return truncate(id.Primary + "_" + clean)
}

// ShortName keeps the leading tokens of the physics process for simulation
// and the processing label for data, e.g. TTbar or JetHT_PromptReco.
func ShortName(id Identifier, kind Kind) string {
	if kind == KindMC {
		primary := id.Primary
		for _, tag := range campaignTags {
			primary = strings.ReplaceAll(primary, tag, "")
		}
		var tokens []string
		for _, tok := range strings.Split(primary, "_") {
			if tok == "" {
				continue
			}
			tokens = append(tokens, tok)
			if len(tokens) == 3 {
				break
			}
		}
		return truncate(strings.Join(tokens, "_"))
	}

	// A leading run era gives way to the processing label after it.
	tokens := strings.Split(id.Processed, "-")
	sec := tokens[0]
	if strings.HasPrefix(sec, "Run") && len(tokens) > 1 && tokens[1] != "" {
		sec = tokens[1]
	}
	sec = strings.ReplaceAll(sec, "MINIv6NANOv15", "NANOv15")
	sec = strings.ReplaceAll(sec, "Run", "")
	return truncate(id.Primary + "_" + sec)
}

// OutputDatasetTag is the tag under which the skimmed output is stored.
func OutputDatasetTag(kind Kind, requestName string) string {
	return fmt.Sprintf("NanoPost_%s_%s", kind, requestName)
}

func truncate(s string) string {
	if len(s) > MaxRequestNameLength {
		return s[:MaxRequestNameLength]
	}
	return s
}
