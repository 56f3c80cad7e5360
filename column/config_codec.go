package column

import (
	"strconv"

	"github.com/foliant-db/foliant/ferrors"
)

func materializeShared(cfg *Config) map[string]string {
	out := map[string]string{
		"id":       cfg.ID,
		"name":     cfg.Name,
		"type":     string(cfg.Type),
		"required": strconv.FormatBool(cfg.Required),
		"is_set":   strconv.FormatBool(cfg.IsSet),
	}
	if cfg.SetMin != nil {
		out["set_min"] = strconv.Itoa(*cfg.SetMin)
	}
	if cfg.SetMax != nil {
		out["set_max"] = strconv.Itoa(*cfg.SetMax)
	}
	if cfg.Relevance != 0 {
		out["relevance"] = strconv.Itoa(cfg.Relevance)
	}
	return out
}

func hydrateShared(flat map[string]string) (*Config, error) {
	cfg := &Config{
		ID:        flat["id"],
		Name:      flat["name"],
		Type:      Kind(flat["type"]),
		Relevance: 1,
	}
	if !cfg.Type.IsValid() {
		return nil, ferrors.SchemaError.New("unknown column type " + flat["type"])
	}
	cfg.Required, _ = strconv.ParseBool(flat["required"])
	cfg.IsSet, _ = strconv.ParseBool(flat["is_set"])
	if v, ok := flat["set_min"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, ferrors.SchemaError.New("bad set_min for column " + cfg.Name)
		}
		cfg.SetMin = &n
	}
	if v, ok := flat["set_max"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, ferrors.SchemaError.New("bad set_max for column " + cfg.Name)
		}
		cfg.SetMax = &n
	}
	if v, ok := flat["relevance"]; ok {
		n, err := strconv.Atoi(v)
		if err == nil && n >= 1 && n <= 5 {
			cfg.Relevance = n
		}
	}
	return cfg, nil
}

func materializeSelect(cfg *Config, out map[string]string) {
	ids := make([]string, len(cfg.Options))
	names := make([]string, len(cfg.Options))
	for i, o := range cfg.Options {
		ids[i] = o.ID
		names[i] = o.Name
	}
	out["option_ids"] = joinSemi(ids)
	out["option_names"] = joinSemi(names)
}

func hydrateSelect(cfg *Config, flat map[string]string) {
	ids := splitSemi(flat["option_ids"])
	names := splitSemi(flat["option_names"])
	for i := range ids {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		cfg.Options = append(cfg.Options, SelectOption{ID: ids[i], Name: name})
	}
}

func materializeDate(cfg *Config, out map[string]string) {
	out["date_format"] = cfg.DateFormat
	out["time_format"] = cfg.TimeFormat
}

func hydrateDate(cfg *Config, flat map[string]string) error {
	cfg.DateFormat = flat["date_format"]
	cfg.TimeFormat = flat["time_format"]
	switch cfg.DateFormat {
	case "", DateFormatFriendly, DateFormatUS, DateFormatEuropean, DateFormatISO:
	default:
		return ferrors.SchemaError.New("unsupported date_format " + cfg.DateFormat)
	}
	switch cfg.TimeFormat {
	case "", TimeFormat12, TimeFormat24:
	default:
		return ferrors.SchemaError.New("time format must be \"12\" or \"24\"")
	}
	return nil
}

func materializeNumeric(cfg *Config, out map[string]string) {
	decimals := cfg.NumberDecimals
	if decimals == 0 {
		decimals = 2
	}
	out["number_decimals"] = strconv.Itoa(decimals)
	if cfg.Type == KindCurrency {
		out["currency_symbol"] = cfg.CurrencySymbol
	}
}

func hydrateNumeric(cfg *Config, flat map[string]string) {
	cfg.NumberDecimals = 2
	if v, ok := flat["number_decimals"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.NumberDecimals = n
		}
	}
	cfg.CurrencySymbol = flat["currency_symbol"]
}

func materializeRange(cfg *Config, out map[string]string) {
	if cfg.Minimum != nil {
		out["minimum"] = strconv.FormatFloat(*cfg.Minimum, 'f', -1, 64)
	}
	if cfg.Maximum != nil {
		out["maximum"] = strconv.FormatFloat(*cfg.Maximum, 'f', -1, 64)
	}
}

func hydrateRange(cfg *Config, flat map[string]string) {
	if v, ok := flat["minimum"]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Minimum = &f
		}
	}
	if v, ok := flat["maximum"]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Maximum = &f
		}
	}
}

func materializeFormula(cfg *Config, out map[string]string) {
	out["formula"] = cfg.FormulaSource
	out["formula_format"] = cfg.FormulaFormat
}

func hydrateFormula(cfg *Config, flat map[string]string) {
	cfg.FormulaSource = flat["formula"]
	cfg.FormulaFormat = flat["formula_format"]
	if cfg.FormulaFormat == "" {
		cfg.FormulaFormat = FormulaFormatText
	}
}

func materializeLink(cfg *Config, out map[string]string) {
	out["linked_folder"] = cfg.LinkedFolder
	out["many"] = strconv.FormatBool(cfg.Many)
	out["delete_on_link_drop"] = strconv.FormatBool(cfg.DeleteOnLinkDrop)
}

func hydrateLink(cfg *Config, flat map[string]string) {
	cfg.LinkedFolder = flat["linked_folder"]
	cfg.Many, _ = strconv.ParseBool(flat["many"])
	cfg.DeleteOnLinkDrop, _ = strconv.ParseBool(flat["delete_on_link_drop"])
}

func materializeReference(cfg *Config, out map[string]string) {
	out["link_column"] = cfg.LinkColumn
	out["remote_column"] = cfg.RemoteColumn
}

func hydrateReference(cfg *Config, flat map[string]string) {
	cfg.LinkColumn = flat["link_column"]
	cfg.RemoteColumn = flat["remote_column"]
}

func materializeStatsConfig(cfg *Config, out map[string]string) {
	out["link_column"] = cfg.LinkColumn
	out["related_column"] = cfg.RelatedColumn
	out["stats_function"] = cfg.StatsFunction
}

func hydrateStatsConfig(cfg *Config, flat map[string]string) {
	cfg.LinkColumn = flat["link_column"]
	cfg.RelatedColumn = flat["related_column"]
	cfg.StatsFunction = flat["stats_function"]
}

func joinSemi(vals []string) string {
	out := ""
	for i, v := range vals {
		if i > 0 {
			out += ";"
		}
		out += v
	}
	return out
}

func splitSemi(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ';' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}
