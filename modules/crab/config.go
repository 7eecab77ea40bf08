package crab

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/specialistvlad/nanopost/internal/submission"
)

var configTemplate = template.Must(template.New("crab").Funcs(template.FuncMap{
	"py": pyLiteral,
}).Parse(`from CRABClient.UserUtilities import config

# nanopost request {{ .ID }}
config = config()

config.General.requestName = {{ py .General.RequestName }}
config.General.workArea = {{ py .General.WorkArea }}
config.General.transferLogs = {{ py .General.TransferLogs }}
config.General.transferOutputs = {{ py .General.TransferOutputs }}

config.JobType.pluginName = {{ py .JobType.PluginName }}
config.JobType.psetName = {{ py .JobType.PsetName }}
config.JobType.scriptExe = {{ py .JobType.ScriptExe }}
config.JobType.inputFiles = {{ py .JobType.InputFiles }}
config.JobType.outputFiles = {{ py .JobType.OutputFiles }}
config.JobType.maxMemoryMB = {{ py .JobType.MaxMemoryMB }}
config.JobType.maxJobRuntimeMin = {{ py .JobType.MaxJobRuntimeMin }}
config.JobType.disableAutomaticOutputCollection = {{ py .JobType.DisableAutomaticOutputCollection }}

config.Data.inputDataset = {{ py .Data.InputDataset }}
config.Data.inputDBS = {{ py .Data.InputDBS }}
config.Data.splitting = {{ py .Data.Splitting }}
config.Data.unitsPerJob = {{ py .Data.UnitsPerJob }}
config.Data.ignoreLocality = {{ py .Data.IgnoreLocality }}
config.Data.publication = {{ py .Data.Publication }}
config.Data.outputDatasetTag = {{ py .Data.OutputDatasetTag }}
config.Data.outLFNDirBase = {{ py .Data.OutLFNDirBase }}

config.Site.storageSite = {{ py .Site.StorageSite }}
config.Site.whitelist = {{ py .Site.Whitelist }}
`))

// RenderConfig writes req as a CRAB python configuration.
func RenderConfig(req *submission.Request) ([]byte, error) {
	var buf bytes.Buffer
	if err := configTemplate.Execute(&buf, req); err != nil {
		return nil, fmt.Errorf("failed to render CRAB config for %q: %w", req.General.RequestName, err)
	}
	return buf.Bytes(), nil
}

// pyLiteral formats the scalar and list types used by Request as python
// literals.
func pyLiteral(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x), nil
	case bool:
		if x {
			return "True", nil
		}
		return "False", nil
	case int:
		return strconv.Itoa(x), nil
	case []string:
		items := make([]string, len(x))
		for i, s := range x {
			items[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(items, ", ") + "]", nil
	default:
		return "", fmt.Errorf("unsupported config value of type %T", v)
	}
}
