// Package output renders RESP replies for simple-redis-cli.
//
// Formats:
//
//   - raw: one scalar per line, the way redis-cli --raw prints
//   - json: the reply converted to plain values, indented
//   - yaml: the same values encoded with gopkg.in/yaml.v3
package output
