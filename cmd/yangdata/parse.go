package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	log "k8s.io/klog"

	"github.com/andaru/yangdata/datastore"
	"github.com/andaru/yangdata/dom"
	"github.com/andaru/yangdata/modules"
)

func init() {
	parseCmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a YANG instance document and re-emit it",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	parseCmd.Flags().String("in-format", "", "input format: xml or json (default: guessed from file extension)")
	parseCmd.Flags().String("out-format", "xml", "output format: xml or json")
	parseCmd.Flags().Bool("strict", false, "reject unknown elements in namespaces no loaded module owns, instead of skipping them")
	parseCmd.Flags().Bool("filter", false, "decode as a <get>/<get-config> filter: values and references may be absent")
	parseCmd.Flags().Bool("edit", false, "decode as an <edit-config> payload: recognize insert/value/key attributes")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]

	modules.SetYANGPath(viper.GetStringSlice("yang-path")...)
	mods := modules.NewCollection()
	if errs := mods.ImportAll(); len(errs) > 0 {
		for _, err := range errs {
			log.Warningf("importing YANG modules: %v", err)
		}
	}
	if errs := mods.Process(); len(errs) > 0 {
		for _, err := range errs {
			log.Errorf("processing YANG modules: %v", err)
		}
		return fmt.Errorf("%d YANG module processing errors", len(errs))
	}

	inFormat := viper.GetString("in-format")
	if inFormat == "" {
		inFormat = guessFormat(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var opts datastore.Options
	if viper.GetBool("strict") {
		opts |= datastore.OptStrict
	}
	if viper.GetBool("filter") {
		opts |= datastore.OptFilter
	}
	if viper.GetBool("edit") {
		opts |= datastore.OptEdit
	}

	doc := dom.NewDocument(nil)
	dec := &datastore.Decoder{Node: doc, Modules: mods, Options: opts}
	un := dom.NewUnmarshaler(dec)

	switch inFormat {
	case "json":
		un.InitializeArgs = []string{"name.resolver", "rfc7951"}
		if _, err := un.JSONReader().ReadFrom(f); err != nil {
			return fmt.Errorf("decoding JSON: %w", err)
		}
	case "xml":
		un.InitializeArgs = []string{"name.resolver", "rfc6020"}
		if _, err := un.XMLReader().ReadFrom(f); err != nil {
			return fmt.Errorf("decoding XML: %w", err)
		}
	default:
		return fmt.Errorf("unknown input format %q: pass --in-format xml|json", inFormat)
	}

	for _, derr := range dec.DecodingErrors() {
		log.Warningf("decode: %v", derr)
	}
	if err := dec.ResolveDeferred(); err != nil {
		return fmt.Errorf("resolving leafref/instance-identifier references: %w", err)
	}

	switch viper.GetString("out-format") {
	case "json":
		return dec.WriteJSON(os.Stdout, dec.Root())
	case "xml":
		return dec.WriteXML(os.Stdout, dec.Root())
	default:
		return fmt.Errorf("unknown output format %q: pass --out-format xml|json", viper.GetString("out-format"))
	}
}

func guessFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".xml":
		return "xml"
	default:
		return ""
	}
}
