package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRenderCmd(opts *options) *cobra.Command {
	var (
		dataFile string
		sets     []string
		outFile  string
	)

	cmd := &cobra.Command{
		Use:   "render <view>",
		Short: "Render a view and print the result",
		Example: `  block render pages.home --data home.yaml
  block render mail::welcome --set name=Jane --out welcome.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loadData(dataFile, sets)
			if err != nil {
				return err
			}
			e, err := opts.engine()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if outFile != "" {
				f, err := os.Create(outFile)
				if err != nil {
					return fmt.Errorf("error creating output file: %w", err)
				}
				defer f.Close()
				w = f
			}
			return e.RenderContext(cmd.Context(), w, args[0], data)
		},
	}

	cmd.Flags().StringVarP(&dataFile, "data", "d", "", "YAML, JSON or TOML file with view data")
	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "set a data value, key=value (repeatable, dotted keys nest)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write the result to a file instead of stdout")
	return cmd
}

// loadData reads the data file, if any, and applies key=value overrides.
func loadData(path string, sets []string) (map[string]any, error) {
	data := map[string]any{}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading data file: %w", err)
		}
		unmarshal := yaml.Unmarshal
		if strings.EqualFold(filepath.Ext(path), ".toml") {
			unmarshal = toml.Unmarshal
		}
		if err := unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("error parsing data file '%s': %w", path, err)
		}
	}

	for _, set := range sets {
		key, value, ok := strings.Cut(set, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q, want key=value", set)
		}
		setPath(data, strings.Split(key, "."), value)
	}
	return data, nil
}

func setPath(data map[string]any, keys []string, value string) {
	for _, key := range keys[:len(keys)-1] {
		next, ok := data[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			data[key] = next
		}
		data = next
	}
	data[keys[len(keys)-1]] = value
}
