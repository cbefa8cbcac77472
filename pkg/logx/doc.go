// Package logx configures waterbot's structured logging.
//
// This repo uses a small wrapper (logx.Logger) on top of zerolog to keep:
//   - Console output readable (short timestamps, key=value fields)
//   - File output JSON-structured and append-only
package logx
