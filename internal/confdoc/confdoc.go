// Package confdoc renders the service configuration reference from the env
// tags of config.Config.
package confdoc

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const generalGroup = "General"

// Setting is a single environment variable
type Setting struct {
	Env         string
	Default     string
	Description string
	Secret      bool
	Group       string
}

// Collect walks the struct type of v and returns its settings in declaration
// order. Nested struct fields contribute their prefix and their description
// becomes the group of the settings below them.
func Collect(v interface{}) []Setting {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return collect(t, "", generalGroup)
}

func collect(t reflect.Type, prefix, group string) []Setting {
	var settings []Setting
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag, ok := field.Tag.Lookup("env")
		if !ok {
			continue
		}
		name, opts := parseTag(tag)

		ft := field.Type
		for ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct && name == "" {
			sub := strings.TrimSuffix(field.Tag.Get("description"), " configuration")
			settings = append(settings, collect(ft, prefix+opts["prefix"], sub)...)
			continue
		}

		settings = append(settings, Setting{
			Env:         prefix + name,
			Default:     opts["default"],
			Description: field.Tag.Get("description"),
			Secret:      field.Tag.Get("type") == "secret",
			Group:       group,
		})
	}
	return settings
}

func parseTag(tag string) (string, map[string]string) {
	parts := strings.Split(tag, ",")
	opts := make(map[string]string, len(parts)-1)
	for _, part := range parts[1:] {
		k, v, _ := strings.Cut(strings.TrimSpace(part), "=")
		opts[k] = v
	}
	return strings.TrimSpace(parts[0]), opts
}

// WriteEnvExample renders a dotenv file with every setting at its default
func WriteEnvExample(w io.Writer, settings []Setting) error {
	var sb strings.Builder
	group := ""
	for _, s := range settings {
		if s.Group != group {
			if group != "" {
				sb.WriteString("\n")
			}
			fmt.Fprintf(&sb, "# %s\n", title(s.Group))
			group = s.Group
		}
		fmt.Fprintf(&sb, "%s=%s\n", s.Env, s.Default)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteConfigMap renders a Kubernetes ConfigMap holding the non secret settings
func WriteConfigMap(w io.Writer, name string, settings []Setting) error {
	return writeManifest(w, "ConfigMap", name, "data", settings, false)
}

// WriteSecret renders a Kubernetes Secret with an empty entry for every secret setting
func WriteSecret(w io.Writer, name string, settings []Setting) error {
	return writeManifest(w, "Secret", name, "stringData", settings, true)
}

func writeManifest(w io.Writer, kind, name, dataKey string, settings []Setting, secret bool) error {
	data := &yaml.Node{Kind: yaml.MappingNode}
	group := ""
	for _, s := range settings {
		if s.Secret != secret {
			continue
		}
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: s.Env}
		if s.Group != group {
			key.HeadComment = title(s.Group)
			group = s.Group
		}
		value := ""
		if !secret {
			value = s.Default
		}
		data.Content = append(data.Content, key, &yaml.Node{Kind: yaml.ScalarNode, Style: yaml.DoubleQuotedStyle, Value: value})
	}

	labels := mapping("app", name)
	metadata := mapping("name", name, "namespace", name)
	metadata.Content = append(metadata.Content, scalar("labels"), labels)

	root := mapping("apiVersion", "v1", "kind", kind)
	root.Content = append(root.Content, scalar("metadata"), metadata)
	if secret {
		root.Content = append(root.Content, scalar("type"), scalar("Opaque"))
	}
	root.Content = append(root.Content, scalar(dataKey), data)

	if _, err := io.WriteString(w, "---\n"); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return err
	}
	return enc.Close()
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: v}
}

func mapping(kv ...string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, s := range kv {
		n.Content = append(n.Content, scalar(s))
	}
	return n
}

// WriteMarkdown renders the configuration reference as markdown tables, one per group
func WriteMarkdown(w io.Writer, heading string, settings []Setting) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", heading)

	group := ""
	for _, s := range settings {
		if s.Group != group {
			fmt.Fprintf(&sb, "\n## %s\n\n", title(s.Group))
			sb.WriteString("| Key | Default Value | Description |\n")
			sb.WriteString("| --- | ------------- | ----------- |\n")
			group = s.Group
		}
		def := "`" + s.Default + "`"
		if s.Default == "" {
			def = "`\"\"`"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", s.Env, def, s.Description)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

var caser = cases.Title(language.English, cases.NoLower)

func title(group string) string {
	return caser.String(group) + " settings"
}
