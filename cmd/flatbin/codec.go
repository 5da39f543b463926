package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/flatbin"
	"github.com/wippyai/flatbin/schema"
	"github.com/wippyai/flatbin/wire"
)

func runEncode(c *cli, args []string) error {
	var outPath string
	fs := c.flags("encode")
	fs.StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	typ, err := c.parse(fs, args)
	if err != nil {
		return err
	}

	text, err := c.readInput()
	if err != nil {
		return err
	}
	v, err := parseValue(text, filepath.Ext(c.inPath) == ".json")
	if err != nil {
		return err
	}

	enc := wire.NewEncoder(nil)
	if err := schema.Encode(enc, typ, v); err != nil {
		return err
	}

	if outPath == "" {
		_, err = c.stdout.Write(enc.Bytes())
		return err
	}
	return os.WriteFile(outPath, enc.Bytes(), 0o644)
}

// parseValue reads a YAML document, or a JSON one with numbers kept
// exact.
func parseValue(text []byte, isJSON bool) (any, error) {
	var v any
	if isJSON {
		dec := json.NewDecoder(bytes.NewReader(text))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("parse JSON value: %w", err)
		}
		return v, nil
	}
	if err := yaml.Unmarshal(text, &v); err != nil {
		return nil, fmt.Errorf("parse YAML value: %w", err)
	}
	return v, nil
}

func runDecode(c *cli, args []string) error {
	var (
		format string
		strict bool
	)
	fs := c.flags("decode")
	fs.StringVarP(&format, "format", "f", "yaml", "output format: yaml, json or cbor")
	fs.BoolVar(&strict, "strict", false, "reject trailing bytes")
	typ, err := c.parse(fs, args)
	if err != nil {
		return err
	}

	data, err := c.readInput()
	if err != nil {
		return err
	}

	var opts []flatbin.DecodeOption
	if strict {
		opts = append(opts, flatbin.WithStrict())
	}
	v, err := flatbin.DeserializeSeed(data, schema.Seed{Type: typ}, opts...)
	if err != nil {
		return err
	}
	return writeValue(c.stdout, strings.ToLower(format), v)
}

func writeValue(w io.Writer, format string, v any) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("write YAML: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
		return nil
	case "cbor":
		em, err := cbor.CoreDetEncOptions().EncMode()
		if err != nil {
			return err
		}
		data, err := em.Marshal(v)
		if err != nil {
			return fmt.Errorf("write CBOR: %w", err)
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}
