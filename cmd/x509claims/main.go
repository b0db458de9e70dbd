// x509claims prints the claims principal built from X.509 certificates.
//
// Usage:
//
//	x509claims [--all] [--format json|yaml] [--log-level LEVEL] FILE...
//
// Each FILE holds one or more PEM CERTIFICATE blocks or a single DER
// certificate. Every certificate produces one document on stdout.
package main

import (
	"context"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/idmodel/claims"
	"github.com/jonwraymond/idmodel/observe"
)

var errNoCertificates = errors.New("no certificates found")

type claimDoc struct {
	Type      string `json:"type" yaml:"type"`
	Value     string `json:"value" yaml:"value"`
	ValueType string `json:"valueType" yaml:"valueType"`
	Issuer    string `json:"issuer" yaml:"issuer"`
}

type principalDoc struct {
	File               string     `json:"file" yaml:"file"`
	Index              int        `json:"index" yaml:"index"`
	AuthenticationType string     `json:"authenticationType" yaml:"authenticationType"`
	Claims             []claimDoc `json:"claims" yaml:"claims"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var includeAll bool
	var format, logLevel string

	flags := pflag.NewFlagSet("x509claims", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.BoolVarP(&includeAll, "all", "a", false, "include extended claims (serial, SAN names, public key, expiration)")
	flags.StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	flags.StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: x509claims [flags] FILE...\n\nFlags:\n%s", flags.FlagUsages())
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if format != "json" && format != "yaml" {
		fmt.Fprintf(stderr, "unknown format %q\n", format)
		return 2
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}

	logger, err := newLogger(logLevel, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "invalid log level %q: %v\n", logLevel, err)
		return 2
	}
	ctx := context.Background()

	var docs []principalDoc
	status := 0
	for _, path := range flags.Args() {
		certs, err := readCertificates(path)
		if err != nil {
			logger.Error(ctx, "read certificates", observe.Field{Key: "file", Value: path}, observe.Field{Key: "error", Value: err})
			status = 1
			continue
		}
		for i, cert := range certs {
			p, err := claims.FromX509(cert, includeAll)
			if err != nil {
				logger.Error(ctx, "build principal", observe.Field{Key: "file", Value: path}, observe.Field{Key: "index", Value: i}, observe.Field{Key: "error", Value: err})
				status = 1
				continue
			}
			logger.Debug(ctx, "built principal", observe.Field{Key: "file", Value: path}, observe.Field{Key: "claims", Value: len(p.Claims())})
			docs = append(docs, toDoc(path, i, p))
		}
	}

	if err := write(stdout, format, docs); err != nil {
		fmt.Fprintf(stderr, "write output: %v\n", err)
		return 1
	}
	return status
}

func newLogger(level string, w io.Writer) (observe.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(w),
		lvl,
	)
	return observe.NewZapLogger(zap.New(core)), nil
}

// readCertificates parses every PEM CERTIFICATE block in the file, or the
// whole file as DER when it contains no PEM data.
func readCertificates(path string) ([]*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var certs []*x509.Certificate
	rest := data
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse PEM certificate %d: %w", len(certs), err)
		}
		certs = append(certs, cert)
	}
	if len(certs) > 0 {
		return certs, nil
	}

	cert, err := x509.ParseCertificate(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errNoCertificates, err)
	}
	return []*x509.Certificate{cert}, nil
}

func toDoc(path string, index int, p *claims.Principal) principalDoc {
	all := p.Claims()
	doc := principalDoc{
		File:               path,
		Index:              index,
		AuthenticationType: p.AuthenticationType(),
		Claims:             make([]claimDoc, len(all)),
	}
	for i, c := range all {
		doc.Claims[i] = claimDoc{Type: c.Type, Value: c.Value, ValueType: c.ValueType, Issuer: c.Issuer}
	}
	return doc
}

func write(w io.Writer, format string, docs []principalDoc) error {
	if docs == nil {
		docs = []principalDoc{}
	}
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(docs); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}
