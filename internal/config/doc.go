// Package config provides the run options and the zone configuration loader
// for redactpdf.
//
// Two kinds of configuration live here:
//   - Config: per-invocation options built from CLI flags (DPI, stamping,
//     output directory, page range, history, report format)
//   - ZoneConfigSet: the document-type → redaction-rule mapping read from a
//     JSON or YAML file and validated against an embedded JSON Schema
//
// Discovery of the zone file (FindConfigFile) is done once by the CLI. The
// engine only ever receives an already loaded *model.ZoneConfigSet.
package config
