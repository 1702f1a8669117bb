package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
)

var (
	DefaultIdentifierNames = []string{"Código Barras", "Código_Barras", "Codigo Barras", "barcode", "Barcode", "BARCODE", "codigo_barras"}
	DefaultLabelNames      = []string{"Artigo", "artigo", "ARTIGO", "Nome", "nome", "Nome do Artigo"}
)

type Config struct {
	OutputSuffix string
	CSVExt       string
	CSVDelimiter rune
	SheetName    string
	InputCharset string

	IdentifierNames []string
	LabelNames      []string
	AliasesFile     string

	HistoryDB string
	RunsLimit int
	Verbose   bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	delimiter, err := parseDelimiter(getEnv("PREPARE_CSV_DELIMITER", ","))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		OutputSuffix: getEnv("PREPARE_OUTPUT_SUFFIX", "_PREPARADO"),
		CSVExt:       getEnv("PREPARE_CSV_EXT", ".csv"),
		CSVDelimiter: delimiter,
		SheetName:    getEnv("PREPARE_SHEET", ""),
		InputCharset: getEnv("PREPARE_INPUT_CHARSET", "windows-1252"),

		IdentifierNames: getEnvList("PREPARE_IDENTIFIER_NAMES", DefaultIdentifierNames),
		LabelNames:      getEnvList("PREPARE_LABEL_NAMES", DefaultLabelNames),
		AliasesFile:     getEnv("PREPARE_ALIASES_FILE", ""),

		HistoryDB: getEnv("PREPARE_HISTORY_DB", ""),
		RunsLimit: getEnvInt("PREPARE_RUNS_LIMIT", 20),
		Verbose:   getEnvBool("PREPARE_VERBOSE", false),
	}

	if strings.TrimSpace(cfg.AliasesFile) != "" {
		aliases, err := LoadAliases(cfg.AliasesFile)
		if err != nil {
			return Config{}, err
		}
		aliases.Apply(&cfg)
	}

	return cfg, cfg.Validate()
}

// Default returns the built-in configuration without consulting the environment.
func Default() Config {
	return Config{
		OutputSuffix:    "_PREPARADO",
		CSVExt:          ".csv",
		CSVDelimiter:    ',',
		InputCharset:    "windows-1252",
		IdentifierNames: append([]string(nil), DefaultIdentifierNames...),
		LabelNames:      append([]string(nil), DefaultLabelNames...),
		RunsLimit:       20,
	}
}

func (c Config) Validate() error {
	if len(c.IdentifierNames) == 0 {
		return fmt.Errorf("identifier column name list is empty")
	}
	if len(c.LabelNames) == 0 {
		return fmt.Errorf("label column name list is empty")
	}
	if !strings.HasPrefix(c.CSVExt, ".") || len(c.CSVExt) < 2 {
		return fmt.Errorf("invalid csv extension: %q", c.CSVExt)
	}
	switch c.CSVDelimiter {
	case 0, '"', '\r', '\n', utf8.RuneError:
		return fmt.Errorf("invalid csv delimiter: %q", c.CSVDelimiter)
	}
	return nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required setting: %s", name)
	}
	return nil
}

func parseDelimiter(value string) (rune, error) {
	switch strings.ToLower(value) {
	case `\t`, "tab":
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(value)
	if size == 0 || size != len(value) {
		return 0, fmt.Errorf("PREPARE_CSV_DELIMITER must be a single character, got %q", value)
	}
	return r, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := getEnv(key, "")
	if strings.TrimSpace(value) == "" {
		return append([]string(nil), fallback...)
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
