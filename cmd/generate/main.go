package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	config "github.com/inference-gateway/support-chat/config"
	confdoc "github.com/inference-gateway/support-chat/internal/confdoc"
)

const manifestName = "support-chat"

var (
	output string
	_type  string
)

func init() {
	flag.StringVar(&output, "output", "", "Path to the output file")
	flag.StringVar(&_type, "type", "", "The type of the file to generate (Env, ConfigMap, Secret, or MD)")
}

func main() {
	flag.Parse()

	if output == "" || _type == "" {
		fmt.Println("Both -output and -type must be specified")
		os.Exit(1)
	}

	settings := confdoc.Collect(config.Config{})

	var buf bytes.Buffer
	var err error
	switch _type {
	case "Env":
		err = confdoc.WriteEnvExample(&buf, settings)
	case "ConfigMap":
		err = confdoc.WriteConfigMap(&buf, manifestName, settings)
	case "Secret":
		err = confdoc.WriteSecret(&buf, manifestName, settings)
	case "MD":
		err = confdoc.WriteMarkdown(&buf, "Support Chat Configuration", settings)
	default:
		fmt.Println("Invalid type specified")
		os.Exit(1)
	}
	if err != nil {
		fmt.Printf("Error generating %s: %v\n", _type, err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		fmt.Printf("Error creating %s: %v\n", filepath.Dir(output), err)
		os.Exit(1)
	}
	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		fmt.Printf("Error writing %s: %v\n", output, err)
		os.Exit(1)
	}
}
