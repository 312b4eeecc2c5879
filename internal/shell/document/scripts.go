package document

import (
	"encoding/json"
	"fmt"

	"golang.org/x/net/html"

	"github.com/iknowcss/htmlshell/pkg/types"
)

// Optimizer snippet tolerances, matching the vendor's recommended values.
const (
	optimizerSettingsTolerance = 2000
	optimizerLibraryTolerance  = 2500
)

const (
	// optimizerAccountScriptFormat is the account-configuration closure.
	// The resolved account id is substituted in.
	optimizerAccountScriptFormat = "window._vwo_code=window._vwo_code||(function(){" +
		"var account_id=%d," +
		"settings_tolerance=%d," +
		"library_tolerance=%d," +
		"use_existing_jquery=false;" +
		"return{account_id:account_id," +
		"settings_tolerance:function(){return settings_tolerance;}," +
		"library_tolerance:function(){return library_tolerance;}," +
		"use_existing_jquery:function(){return use_existing_jquery;}};" +
		"}());"

	// optimizerLoaderScript pulls the optimizer library for the configured account.
	optimizerLoaderScript = "document.write('<s'+'cript src=\"//dev.visualwebsiteoptimizer.com/lib/'" +
		"+window._vwo_code.account_id+'.js\" type=\"text/javascript\"></s'+'cript>');"

	// optimizerReadyScript invokes the optimizer's ready handler once loaded.
	optimizerReadyScript = "if(window._vwo_code&&window._vwo_code.init){window._vwo_code.init();}"
)

// envScriptText produces the environment bootstrap script. The textual
// shape is a fixed contract: window.process={env:<json>}; with no
// whitespace variance. A nil or empty env serializes as {}.
func envScriptText(env map[string]interface{}) (string, error) {
	payload := []byte("{}")
	if len(env) > 0 {
		var err error
		payload, err = json.Marshal(env)
		if err != nil {
			return "", fmt.Errorf("failed to serialize env: %w", err)
		}
	}
	return "window.process={env:" + string(payload) + "};", nil
}

// bootstrapScripts builds the ordered inline script sequence for the body:
// the environment script always comes first; the three optimizer scripts
// follow only when the optimizer is enabled.
func bootstrapScripts(opts types.DocumentOptions) ([]*html.Node, error) {
	envText, err := envScriptText(opts.Env)
	if err != nil {
		return nil, err
	}

	scripts := []*html.Node{inlineScript(envText)}

	if opts.VisualWebsiteOptimizer.Enabled() {
		accountID := opts.VisualWebsiteOptimizer.ResolvedAccountID()
		scripts = append(scripts,
			inlineScript(fmt.Sprintf(optimizerAccountScriptFormat,
				accountID, optimizerSettingsTolerance, optimizerLibraryTolerance)),
			inlineScript(optimizerLoaderScript),
			inlineScript(optimizerReadyScript),
		)
	}

	return scripts, nil
}

// inlineScript builds a <script> element with raw text content.
func inlineScript(content string) *html.Node {
	node := element("script")
	node.AppendChild(text(content))
	return node
}
