package state

import (
	"fmt"

	"github.com/ValentinKolb/dState/cmd/util"
	"github.com/ValentinKolb/dState/lib/demo"
	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"
)

var (
	encodeCmd = &cobra.Command{
		Use:   "encode [sample]",
		Short: "Serializes a built-in sample state and prints the JSON",
		Long: util.WrapString(`Serializes a built-in sample state with the configured modules.
Without arguments the available samples are listed.`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, s := range demo.Samples() {
					valid := ""
					if !s.Valid {
						valid = " (invalid)"
					}
					fmt.Printf("%-12s %-8s %s%s\n", s.Name, s.Root, s.Description, valid)
				}
				return nil
			}

			s, err := demo.GetSample(args[0])
			if err != nil {
				return err
			}
			data, err := stateCodec.Serialize(s.New())
			if err != nil {
				return util.DescribeError(err)
			}
			fmt.Println(string(data))
			return nil
		},
	}
	decodeCmd = &cobra.Command{
		Use:   "decode [type] [file]",
		Short: "Deserializes JSON (or JSONC) into a state type and prints it again",
		Long: util.WrapString(`Reads JSON from the file or stdin (use - or omit the file),
deserializes it into the given root type and prints the canonical serialization
of the result. Comments and trailing commas are accepted.`),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := demo.NewRoot(args[0])
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			data, err := util.ReadInput(name)
			if err != nil {
				return err
			}

			if err := stateCodec.Deserialize(jsonc.ToJSON(data), target); err != nil {
				return util.DescribeError(err)
			}
			out, err := stateCodec.Serialize(target)
			if err != nil {
				return util.DescribeError(err)
			}
			fmt.Println(string(out))
			return nil
		},
	}
	resolveCmd = &cobra.Command{
		Use:   "resolve [tag] [qualified]",
		Short: "Resolves a Type (and optional TypeCSharp) discriminator",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qualified := ""
			if len(args) == 2 {
				qualified = args[1]
			}
			res, err := stateCodec.Resolve(args[0], qualified)
			if err != nil {
				return util.DescribeError(err)
			}

			e := res.Entry
			fmt.Printf("%-12s: %s\n", "Type", e.Tag)
			fmt.Printf("%-12s: %s\n", "TypeCSharp", e.Qualified)
			fmt.Printf("%-12s: %s\n", "Module", e.Module)
			fmt.Printf("%-12s: %s\n", "Go Type", e.Type)
			fmt.Printf("%-12s: %t\n", "Pointer", res.Pointer)
			return nil
		},
	}
	modulesCmd = &cobra.Command{
		Use:   "modules",
		Short: "Lists the candidate modules and their types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, m := range stateCodec.Modules() {
				marker := ""
				if i == 0 {
					marker = " (default)"
				}
				fmt.Printf("%s [%s]%s\n", m.Name(), m.Namespace(), marker)
				for _, e := range m.Entries() {
					form := "value"
					if e.Pointer {
						form = "pointer"
					}
					fmt.Printf("  %-12s %-28s %-20s %s\n", e.Tag, e.Qualified, e.Type, form)
				}
			}
			return nil
		},
	}
)
