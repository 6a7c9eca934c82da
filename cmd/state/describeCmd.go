package state

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ValentinKolb/dState/cmd/util"
	"github.com/ValentinKolb/dState/lib/codec"
	"github.com/ValentinKolb/dState/lib/common"
	"github.com/ValentinKolb/dState/lib/demo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var describeCmd = &cobra.Command{
	Use:   "describe [type]",
	Short: "Prints the serializable members of a state type",
	Long: util.WrapString(`Prints the members of a state type in serialization order with their
classification. The output format is selected with --format.`),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := demo.RootType(args[0])
		if err != nil {
			return err
		}
		view := newDescriptorView(stateCodec.Describe(t), stateCodec)

		switch stateConfig.OutputFormat {
		case common.FormatJSON:
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		case common.FormatYAML:
			enc := yaml.NewEncoder(os.Stdout)
			defer enc.Close()
			return enc.Encode(view)
		default:
			view.print()
			return nil
		}
	},
}

// descriptorView is the printable form of a codec.TypeDescriptor
type descriptorView struct {
	Type       string       `json:"type" yaml:"type"`
	Tag        string       `json:"tag,omitempty" yaml:"tag,omitempty"`
	Qualified  string       `json:"qualified,omitempty" yaml:"qualified,omitempty"`
	TypeField  bool         `json:"typeField" yaml:"typeField"`
	TypeCSharp bool         `json:"typeCSharpField" yaml:"typeCSharpField"`
	Members    []memberView `json:"members" yaml:"members"`
}

type memberView struct {
	Name   string `json:"name" yaml:"name"`
	Field  string `json:"field" yaml:"field"`
	GoType string `json:"goType" yaml:"goType"`
	Kind   string `json:"kind" yaml:"kind"`
}

func newDescriptorView(d *codec.TypeDescriptor, c *codec.Codec) descriptorView {
	view := descriptorView{
		Type:       d.Type.String(),
		TypeField:  d.HasTypeField(),
		TypeCSharp: d.HasQualifiedTypeField(),
		Members:    make([]memberView, 0, len(d.Members)),
	}
	for _, m := range c.Modules() {
		if e, ok := m.LookupType(d.Type); ok {
			view.Tag, view.Qualified = e.Tag, e.Qualified
			break
		}
	}
	for _, m := range d.Members {
		view.Members = append(view.Members, memberView{
			Name:   m.Name,
			Field:  m.Field,
			GoType: m.Shape.Type.String(),
			Kind:   m.Shape.String(),
		})
	}
	return view
}

func (v descriptorView) print() {
	fmt.Printf("%s", v.Type)
	if v.Tag != "" {
		fmt.Printf(" (registered as %s, %s)", v.Tag, v.Qualified)
	}
	fmt.Println()
	fmt.Printf("Type member: %t, TypeCSharp member: %t\n\n", v.TypeField, v.TypeCSharp)

	fmt.Printf("%-16s %-24s %s\n", "MEMBER", "GO TYPE", "KIND")
	for _, m := range v.Members {
		fmt.Printf("%-16s %-24s %s\n", m.Name, m.GoType, m.Kind)
	}
}
