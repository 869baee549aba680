package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/export"
	"github.com/spf13/cobra"
)

func newScaffoldCmd(root *rootOptions) *cobra.Command {
	var (
		recordType string
		out        string
		force      bool
	)
	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Write starter workbook templates with the named ranges each record type needs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := root.app(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if out == "" {
				out = a.Config.Export.TemplateDir
			}
			if err := ensureDir(out); err != nil {
				return err
			}

			defs := a.Registry.Definitions()
			if recordType != "" {
				def, err := a.Registry.Resolve(recordType)
				if err != nil {
					return err
				}
				defs = []export.Definition{def}
			}

			for _, def := range defs {
				target := filepath.Join(out, templateFile(def))
				if _, err := os.Stat(target); err == nil && !force {
					a.Logger.Infof("skip %s: %s exists", def.Name, target)
					continue
				}
				data, err := export.ScaffoldBytes(def)
				if err != nil {
					return err
				}
				if err := os.WriteFile(target, data, 0o644); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), target)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&recordType, "type", "t", "", "Only scaffold this record type")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output directory (default: the templates directory)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing templates")
	return cmd
}

func templateFile(def export.Definition) string {
	name := filepath.FromSlash(def.Template)
	if filepath.Ext(name) == "" {
		name += ".xlsx"
	}
	return name
}
