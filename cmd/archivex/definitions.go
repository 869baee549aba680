package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/export"
	"github.com/spf13/cobra"
)

func newDefinitionsCmd(root *rootOptions) *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:     "definitions [type]",
		Aliases: []string{"defs"},
		Short:   "List record types, or print one descriptor as YAML",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.app(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if len(args) == 1 || asYAML {
				defs := a.Registry.Definitions()
				if len(args) == 1 {
					def, err := a.Registry.Resolve(args[0])
					if err != nil {
						return err
					}
					defs = []export.Definition{def}
				}
				for i, def := range defs {
					data, err := export.MarshalDefinition(def)
					if err != nil {
						return err
					}
					if i > 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "---")
					}
					fmt.Fprint(cmd.OutOrStdout(), string(data))
				}
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tTEMPLATE\tFIELDS\tCOLUMNS\tTITLE")
			for _, def := range a.Registry.Definitions() {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", def.Name, templateFile(def), len(def.Fields), len(def.Columns), def.Subtitle)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			a.Logger.Debugf("templates directory %s", a.Config.Export.TemplateDir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print every descriptor as YAML")
	return cmd
}
