package syncreport

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	openingRepositoryTemplateConstant    = "Opening repository at %s"
	noRemotesMessageConstant             = "No remotes found"
	remoteLineTemplateConstant           = "  remote %s -> %s"
	upstreamLineTemplateConstant         = "upstream %s -> %s: %d > %d"
	orphanLineTemplateConstant           = "  orphan %s"
	remoteComparisonLineTemplateConstant = "  remote %s -> %s: %d - %d"
	statusEntryLineTemplateConstant      = "%s: %s"
	statusSummaryLineTemplateConstant    = "%d modified, %d deleted, %d untracked, %d unspecified"
	yamlEncodeErrorTemplateConstant      = "encode report as yaml: %w"
	tomlEncodeErrorTemplateConstant      = "encode report as toml: %w"
	tomlIndentSymbolConstant             = "  "
	yamlIndentSpacesConstant             = 2
)

// TextReporter renders a report as human-readable lines.
type TextReporter struct{}

// Render emits every report line to sink in collection order.
func (TextReporter) Render(report Report, sink Sink) {
	sink.Emit(SeverityInfo, fmt.Sprintf(openingRepositoryTemplateConstant, report.RepositoryPath))

	if len(report.Remotes) == 0 {
		sink.Emit(SeverityWarn, noRemotesMessageConstant)
	}
	for _, remote := range report.Remotes {
		sink.Emit(SeverityInfo, fmt.Sprintf(remoteLineTemplateConstant, remote.Name, remote.URL))
	}

	for _, branch := range report.Branches {
		if branch.Upstream != nil {
			upstream := branch.Upstream
			sink.Emit(upstream.Severity, fmt.Sprintf(upstreamLineTemplateConstant, branch.Name, upstream.Target, upstream.Ahead, upstream.Behind))
			continue
		}
		sink.Emit(SeverityWarn, fmt.Sprintf(orphanLineTemplateConstant, branch.Name))
		for _, comparison := range branch.RemoteComparisons {
			sink.Emit(comparison.Severity, fmt.Sprintf(remoteComparisonLineTemplateConstant, comparison.Target, comparison.ResolvedTarget, comparison.Ahead, comparison.Behind))
		}
	}

	for _, entry := range report.Status.Entries {
		sink.Emit(SeverityWarn, fmt.Sprintf(statusEntryLineTemplateConstant, entry.Flags, entry.Path))
	}
	counts := report.Status.Counts
	sink.Emit(report.Status.Severity, fmt.Sprintf(statusSummaryLineTemplateConstant, counts.Modified, counts.Deleted, counts.Untracked, counts.Unspecified))
}

// WriteYAML serializes report to writer.
func WriteYAML(writer io.Writer, report Report) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(yamlIndentSpacesConstant)
	if encodeError := encoder.Encode(report); encodeError != nil {
		return fmt.Errorf(yamlEncodeErrorTemplateConstant, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return fmt.Errorf(yamlEncodeErrorTemplateConstant, closeError)
	}
	return nil
}

// WriteTOML serializes report to writer. Absent upstreams and endpoints are omitted.
func WriteTOML(writer io.Writer, report Report) error {
	encoder := toml.NewEncoder(writer)
	encoder.SetIndentSymbol(tomlIndentSymbolConstant)
	encoder.SetIndentTables(true)
	if encodeError := encoder.Encode(report); encodeError != nil {
		return fmt.Errorf(tomlEncodeErrorTemplateConstant, encodeError)
	}
	return nil
}
