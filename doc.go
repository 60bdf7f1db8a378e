// Package ecomanalytics extracts a dimensional e-commerce warehouse out of
// MySQL and lands it as CSV and Parquet files for BI consumption.
//
// One run of the pipeline performs, in order:
//
//  1. Configuration resolution: defaults, then an optional YAML profile,
//     then DB_* environment variables (a .env file is honored).
//  2. An output directory write probe, so permission problems surface
//     before any querying.
//  3. Data quality checks over the fact tables. Findings are logged and
//     reported but never stop the run.
//  4. Extraction of the six base tables plus whichever KPI views exist in
//     the schema.
//  5. Export of every extracted table to <output>/<table>.csv and
//     <output>/parquet/<table>.parquet.
//
// # Layout
//
//   - cmd/ecomextract: the CLI (run, check, version).
//   - internal/pipeline: run orchestration and the stage ordering.
//   - pkg/config: environment and profile resolution, validation.
//   - pkg/warehouse: MySQL client construction.
//   - pkg/quality: the data quality checks and the optional JSON report.
//   - pkg/catalog: information_schema probes for optional views.
//   - pkg/extract: result set materialization into pkg/models tables.
//   - pkg/export: CSV and Parquet writers.
//
// # Quick start
//
//	export DB_PASSWORD=secret
//	ecomextract run --output-dir ./output
//
// See examples/ for a connection profile template.
package ecomanalytics
