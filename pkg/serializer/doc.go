// Package serializer writes data as JSON, YAML or a flattened table.
//
// It is used to print settings fragments instead of submitting them, for
// example when checking what a boot image would apply.
//
// Formats:
//   - JSON: indented, machine-readable
//   - YAML: human-readable
//   - Table: one row per flattened key, sorted
//
// Values implementing json.Marshaler are flattened through their JSON form,
// so types that keep their content unexported still render as a table.
//
// Usage:
//
//	w, err := serializer.NewFileWriter(serializer.FormatYAML, "/tmp/settings.yaml")
//	if err != nil {
//		return err
//	}
//	defer w.Close()
//	if err := w.Serialize(ctx, frags); err != nil {
//		return err
//	}
package serializer
