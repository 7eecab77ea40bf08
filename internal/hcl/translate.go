package hcl

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/nanopost/internal/config"
	"github.com/specialistvlad/nanopost/internal/ctxlog"
	"github.com/specialistvlad/nanopost/internal/schema"
)

// translateCut converts the HCL cut schema into the agnostic model after
// checking that the expression only calls known functions.
func (l *Loader) translateCut(ctx context.Context, c *schema.Cut) (*config.CutDefinition, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, fmt.Errorf("cut at %s has an empty name", c.Pass.Range())
	}
	if err := checkFunctionCalls(ctx, c.Pass); err != nil {
		return nil, fmt.Errorf("cut %q: %w", c.Name, err)
	}
	return &config.CutDefinition{
		Name:        c.Name,
		Description: c.Description,
		Pass:        c.Pass,
		Source:      c.Pass.Range().String(),
	}, nil
}

// checkFunctionCalls walks a native-syntax expression and rejects calls to
// functions the evaluation context does not provide. Expressions from other
// syntaxes are checked only at evaluation time.
func checkFunctionCalls(ctx context.Context, expr hcl.Expression) error {
	node, ok := expr.(hclsyntax.Node)
	if !ok {
		ctxlog.FromContext(ctx).Debug("Skipping static check of non-native expression.", "range", expr.Range().String())
		return nil
	}
	known := Functions()
	var unknown []string
	hclsyntax.VisitAll(node, func(n hclsyntax.Node) hcl.Diagnostics {
		if call, ok := n.(*hclsyntax.FunctionCallExpr); ok {
			if _, exists := known[call.Name]; !exists {
				unknown = append(unknown, call.Name)
			}
		}
		return nil
	})
	if len(unknown) > 0 {
		return fmt.Errorf("unknown function(s) %s in expression at %s", strings.Join(unknown, ", "), expr.Range())
	}
	return nil
}

func (l *Loader) mergeCutflow(dst *config.CutflowSettings, src *schema.Cutflow) {
	if src.Detection != nil {
		dst.Detection = *src.Detection
	}
	if src.PerFile != nil {
		dst.PerFile = src.PerFile
	}
	if src.CountMode != nil {
		dst.CountMode = *src.CountMode
	}
	if src.WeightField != nil {
		dst.WeightField = *src.WeightField
	}
	if src.WeightDefault != nil {
		dst.WeightDefault = src.WeightDefault
	}
}

func (l *Loader) mergeSubmission(dst *config.SubmissionSettings, src *schema.Submission) {
	setBool := func(d **bool, s *bool) {
		if s != nil {
			*d = s
		}
	}
	setString := func(d **string, s *string) {
		if s != nil {
			*d = s
		}
	}
	setInt := func(d **int, s *int) {
		if s != nil {
			*d = s
		}
	}
	setList := func(d *[]string, s []string) {
		if s != nil {
			*d = s
		}
	}

	setBool(&dst.TransferLogs, src.TransferLogs)
	setBool(&dst.TransferOutputs, src.TransferOutputs)
	setString(&dst.PluginName, src.PluginName)
	setString(&dst.PsetName, src.PsetName)
	setString(&dst.ScriptExe, src.ScriptExe)
	setList(&dst.InputFiles, src.InputFiles)
	setList(&dst.OutputFiles, src.OutputFiles)
	setInt(&dst.MaxMemoryMB, src.MaxMemoryMB)
	setInt(&dst.MaxJobRuntimeMin, src.MaxJobRuntimeMin)
	setBool(&dst.DisableAutomaticOutputCollection, src.DisableAutomaticOutputCollection)
	setString(&dst.InputDBS, src.InputDBS)
	setString(&dst.Splitting, src.Splitting)
	setBool(&dst.IgnoreLocality, src.IgnoreLocality)
	setBool(&dst.Publication, src.Publication)
	setString(&dst.StorageSite, src.StorageSite)
	setList(&dst.Whitelist, src.Whitelist)
}
