package main

import (
	"fmt"
	"strings"

	"github.com/eccenca/go-validation-plugins/plugin"
	"github.com/pterm/pterm"
)

func printDescriptions(descs []plugin.Description) error {
	for _, d := range descs {
		pterm.DefaultSection.Println(d.Label)
		pterm.Info.Printfln("%s\n%s", d.ID, d.Description)

		data := pterm.TableData{{"Parameter", "Type", "Default", "Advanced"}}
		for _, p := range d.Parameters {
			typ := string(p.Type)
			switch {
			case p.DatasetType != "":
				typ += " (" + p.DatasetType + ")"
			case len(p.Options) > 0:
				typ += " (" + strings.Join(p.Options, ", ") + ")"
			}
			data = append(data, []string{p.Name, typ, oneLine(p.Default),
				fmt.Sprintf("%t", p.Advanced)})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}
	}
	return nil
}

func printReport(r plugin.ExecutionReport) error {
	pterm.DefaultSection.Println("Execution report")
	pterm.Info.Printfln("%d%s (%s)", r.EntityCount, r.OperationDesc, r.Operation)

	if len(r.Summary) > 0 {
		data := pterm.TableData{{"Key", "Message"}}
		for _, row := range r.Summary {
			data = append(data, []string{row[0], row[1]})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}
	}
	for _, w := range r.Warnings {
		pterm.Warning.Println(w)
	}
	if r.Error != "" {
		pterm.Error.Println(r.Error)
	}
	return nil
}

func printEntities(e *plugin.Entities) error {
	if e.Len() == 0 {
		pterm.Info.Println("no output entities")
		return nil
	}

	pterm.DefaultSection.Printfln("Output entities (%d)", e.Len())
	header := []string{"URI"}
	for _, p := range e.Schema.Paths {
		header = append(header, p.Path)
	}
	data := pterm.TableData{header}
	for _, ent := range e.Entities {
		row := []string{ent.URI}
		for _, vals := range ent.Values {
			row = append(row, strings.Join(vals, ", "))
		}
		data = append(data, row)
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
