package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	storefs "github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/adapters/store/fs"
	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/export"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type exportOptions struct {
	recordType string
	format     string
	input      string
	out        string
	base       string
}

func newExportCmd(root *rootOptions) *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a record from a JSON or YAML request file",
		Example: `  archivex export --type general_inventory --format xlsx --input inventario.json --out ./out
  cat registro.yaml | archivex export --type transfer_register --format pdf --input - --out ./out`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, root, opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.recordType, "type", "t", "", "Record type to export")
	flags.StringVarP(&opts.format, "format", "f", "xlsx", "Output format: xlsx or pdf")
	flags.StringVarP(&opts.input, "input", "i", "-", "Request file (.json, .yaml) or - for stdin")
	flags.StringVarP(&opts.out, "out", "o", ".", "Output directory")
	flags.StringVar(&opts.base, "base", "", "Filename base, before the unique suffix")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func runExport(cmd *cobra.Command, root *rootOptions, opts *exportOptions) error {
	ctx := cmd.Context()
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	a, err := root.app(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	exp, err := a.Service.Exporter(opts.recordType)
	if err != nil {
		return err
	}
	raw, err := readRawRequest(cmd.InOrStdin(), opts.input)
	if err != nil {
		return err
	}
	if raw.Definition != "" && raw.Definition != exp.Definition.Name {
		return fmt.Errorf("request is for %q, not %q", raw.Definition, exp.Definition.Name)
	}
	req, err := export.DecodeRequest(exp.Definition, raw)
	if err != nil {
		return err
	}

	data, err := exp.Export(ctx, format, req)
	if err != nil {
		return err
	}
	filename, err := exp.Filename(opts.base, format)
	if err != nil {
		return err
	}

	if err := ensureDir(opts.out); err != nil {
		return err
	}
	store := storefs.NewStore(opts.out)
	ref, err := store.Put(ctx, filename, bytes.NewReader(data), export.ArtifactMeta{
		Definition: exp.Definition.Name,
		Format:     format,
		Filename:   filename,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(opts.out, filepath.FromSlash(ref.Key)))
	return nil
}

// readRawRequest reads a request document. YAML is used for .yaml and .yml
// files; everything else, stdin included, is JSON.
func readRawRequest(stdin io.Reader, input string) (export.RawRequest, error) {
	var (
		r    io.Reader
		name = input
	)
	if input == "" || input == "-" {
		r = stdin
		name = "stdin"
	} else {
		f, err := os.Open(input)
		if err != nil {
			return export.RawRequest{}, err
		}
		defer f.Close()
		r = f
	}

	var raw export.RawRequest
	switch strings.ToLower(filepath.Ext(input)) {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
			return export.RawRequest{}, export.NewError(export.KindValidation, "invalid yaml in "+name, err)
		}
	default:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return export.RawRequest{}, export.NewError(export.KindValidation, "invalid json in "+name, err)
		}
	}
	return raw, nil
}
