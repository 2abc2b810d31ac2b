package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mainspringenergy/gqlclient"
	"github.com/mainspringenergy/gqlclient/internal/config"
)

type stringSliceFlag []string

func (v *stringSliceFlag) String() string {
	return fmt.Sprint([]string(*v))
}

func (v *stringSliceFlag) Set(s string) error {
	*v = append(*v, s)
	return nil
}

func splitKeyValue(kv string) (string, string) {
	parts := strings.SplitN(kv, "=", 2)
	if len(parts) != 2 {
		log.Fatalf("in variable definition %q: missing equal sign", kv)
	}
	return parts[0], parts[1]
}

func parseHeader(kv string) (string, string, error) {
	parts := strings.SplitN(kv, ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("in header definition %q: missing colon", kv)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

func main() {
	var rawVars, jsonVars, fileVars, header, envFiles []string
	var configFile string
	var timeout time.Duration
	var verbose bool
	flag.Var((*stringSliceFlag)(&rawVars), "v", "set raw variable")
	flag.Var((*stringSliceFlag)(&jsonVars), "j", "set JSON variable")
	flag.Var((*stringSliceFlag)(&fileVars), "f", "set file variable")
	flag.Var((*stringSliceFlag)(&header), "H", "set HTTP header")
	flag.Var((*stringSliceFlag)(&envFiles), "e", "load environment file")
	flag.StringVar(&configFile, "c", "", "client configuration file")
	flag.DurationVar(&timeout, "t", 30*time.Second, "request timeout")
	flag.BoolVar(&verbose, "d", false, "log requests to stderr")
	flag.Parse()

	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			log.Fatalf("failed to load environment file: %v", err)
		}
	}

	cfg := &config.Config{}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			log.Fatalf("failed to load configuration %q: %v", configFile, err)
		}
		cfg = loaded
	}
	cfg.Merge(&config.Config{Endpoint: flag.Arg(0), Token: os.Getenv("GQLCLIENT_TOKEN")})
	for _, kv := range header {
		k, v, err := parseHeader(kv)
		if err != nil {
			log.Fatal(err)
		}
		cfg.Merge(&config.Config{Headers: map[string]string{k: v}})
	}
	if cfg.Endpoint == "" {
		log.Fatalf("missing endpoint")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatalf("failed to read GraphQL query from stdin: %v", err)
	}
	query := string(b)

	op := gqlclient.NewOperation(query)
	vars := make(map[string]interface{})
	for _, kv := range rawVars {
		k, v := splitKeyValue(kv)
		vars[k] = v
	}
	for _, kv := range jsonVars {
		k, raw := splitKeyValue(kv)
		var v interface{}
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			log.Fatalf("in variable definition %q: invalid JSON: %v", kv, err)
		}
		vars[k] = json.RawMessage(raw)
	}
	for _, kv := range fileVars {
		k, filename := splitKeyValue(kv)

		f, err := os.Open(filename)
		if err != nil {
			log.Fatalf("in variable definition %q: failed to open input file: %v", kv, err)
		}
		defer f.Close()

		t := mime.TypeByExtension(filepath.Ext(filename))
		if t == "" {
			t = "application/octet-stream"
		}

		vars[k] = nil
		op.File(k, gqlclient.File{
			Type:     "Upload",
			Filename: filepath.Base(filename),
			MIMEType: t,
			Body:     f,
		})
	}

	var extra []gqlclient.Option
	if verbose {
		extra = append(extra, gqlclient.WithLogger(log.New(os.Stderr, "gqlclient: ", log.LstdFlags)))
	}
	gqlClient, err := cfg.NewClient(extra...)
	if err != nil {
		log.Fatal(err)
	}

	results, err := gqlClient.RunQuery(ctx, op, vars)
	if err != nil {
		log.Fatal(err)
	}
	if results.HasErrors() {
		for _, e := range results.Errors() {
			log.Print(e.Error())
		}
		os.Exit(1)
	}

	r := bytes.NewReader([]byte(results.Data()))
	if _, err := io.Copy(os.Stdout, r); err != nil {
		log.Fatalf("failed to write response: %v", err)
	}
}
