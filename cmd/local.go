package cmd

import (
	"fmt"
	"sort"
	"strings"

	"cmdbmcp/internal/api"
	"cmdbmcp/internal/app"
)

// kindAliases maps accepted spellings onto capability kinds.
var kindAliases = map[string]api.Kind{
	"tool":      api.KindTool,
	"tools":     api.KindTool,
	"resource":  api.KindResource,
	"resources": api.KindResource,
	"prompt":    api.KindPrompt,
	"prompts":   api.KindPrompt,
}

// parseKind resolves a kind alias. The empty string is accepted when allowEmpty is set.
func parseKind(s string, allowEmpty bool) (api.Kind, error) {
	if s == "" && allowEmpty {
		return "", nil
	}
	if kind, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return kind, nil
	}
	return "", fmt.Errorf("unknown capability kind '%s' (expected one of: %s)", s, availableKinds())
}

func availableKinds() string {
	names := make([]string, 0, len(kindAliases))
	for alias := range kindAliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// openLocal builds the registry and server in-process, as serve would,
// with console logging lowered to warnings so command output stays clean.
func openLocal(configPath string, debug bool) (*app.Application, error) {
	if configPath == "" {
		configPath = defaultConfigPath()
	}
	cfg := app.NewConfig(debug, configPath)
	cfg.Quiet = true

	application, err := app.NewApplication(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return application, nil
}
