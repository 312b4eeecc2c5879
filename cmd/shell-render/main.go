package main

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	logutil "github.com/iknowcss/htmlshell/internal/common/logger"
	"github.com/iknowcss/htmlshell/internal/common/yamlutil"
	"github.com/iknowcss/htmlshell/internal/shell/document"
	"github.com/iknowcss/htmlshell/pkg/types"
)

// shell-render renders a single document shell to stdout (or a file).
// The request file is a types.RenderRequest in YAML or JSON; the body
// fragment can also be supplied as a separate HTML file.
func main() {
	requestPath := flag.String("i", "", "path to render request file (.yaml or .json)")
	bodyPath := flag.String("body", "", "path to HTML body fragment file (overrides request body)")
	outputPath := flag.String("o", "", "output file (default stdout)")
	flag.Parse()

	logger, err := logutil.NewDefaultLogger()
	if err != nil {
		panic(err)
	}

	var req types.RenderRequest
	if *requestPath != "" {
		data, err := os.ReadFile(*requestPath)
		if err != nil {
			logger.Fatal("Failed to read request file", zap.Error(err))
		}

		switch strings.ToLower(filepath.Ext(*requestPath)) {
		case ".json":
			err = json.Unmarshal(data, &req)
		default:
			err = yamlutil.UnmarshalStrict(data, &req)
		}
		if err != nil {
			logger.Fatal("Failed to parse request file",
				zap.String("path", *requestPath),
				zap.Error(err))
		}
	}

	if *bodyPath != "" {
		fragment, err := os.ReadFile(*bodyPath)
		if err != nil {
			logger.Fatal("Failed to read body fragment", zap.Error(err))
		}
		req.Body = string(fragment)
	}

	out := os.Stdout
	if *outputPath != "" {
		f, err := os.Create(*outputPath)
		if err != nil {
			logger.Fatal("Failed to create output file", zap.Error(err))
		}
		defer f.Close()
		out = f
	}

	contribs := document.ContributionsFromTags(req.Head)
	if err := document.Render(out, req.Options, req.Body, contribs); err != nil {
		logger.Fatal("Render failed", zap.Error(err))
	}
}
