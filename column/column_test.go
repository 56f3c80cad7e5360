package column

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidateRequired(t *testing.T) {
	cfg := &Config{Name: "Name", Type: KindSmallText, Required: true}
	_, err := Validate(cfg, nil, &ValidateContext{})
	require.Error(t, err)

	vl, err := Validate(cfg, []string{"Ada"}, &ValidateContext{})
	require.NoError(t, err)
	require.Equal(t, []string{"Ada"}, vl.Strings())
}

func TestValidateSetCardinality(t *testing.T) {
	max := 2
	cfg := &Config{Name: "Tags", Type: KindSmallText, IsSet: true, SetMax: &max}
	_, err := Validate(cfg, []string{"a", "b", "c"}, &ValidateContext{})
	require.Error(t, err)

	vl, err := Validate(cfg, []string{"a", "b"}, &ValidateContext{})
	require.NoError(t, err)
	require.Len(t, vl, 2)
}

func TestValidateNotASetRejectsMultiple(t *testing.T) {
	cfg := &Config{Name: "Name", Type: KindSmallText}
	_, err := Validate(cfg, []string{"a", "b"}, &ValidateContext{})
	require.Error(t, err)
}

func TestValidateSelectUnknownOption(t *testing.T) {
	cfg := &Config{
		Name: "Status", Type: KindSelect,
		Options: []SelectOption{{ID: "open", Name: "Open"}, {ID: "closed", Name: "Closed"}},
	}
	_, err := Validate(cfg, []string{"missing"}, &ValidateContext{})
	require.Error(t, err)

	vl, err := Validate(cfg, []string{"Open"}, &ValidateContext{})
	require.NoError(t, err)
	require.Equal(t, []string{"open"}, vl.Strings())
}

func TestValidateCheckbox(t *testing.T) {
	cfg := &Config{Name: "Active", Type: KindCheckbox}
	vl, err := Validate(cfg, []string{"yes"}, &ValidateContext{})
	require.NoError(t, err)
	require.Equal(t, []string{"true"}, vl.Strings())

	_, err = Validate(cfg, []string{"maybe"}, &ValidateContext{})
	require.Error(t, err)
}

func TestValidateNumberRange(t *testing.T) {
	min, max := 0.0, 100.0
	cfg := &Config{Name: "Score", Type: KindNumber, Minimum: &min, Maximum: &max}
	_, err := Validate(cfg, []string{"150"}, &ValidateContext{})
	require.Error(t, err)

	vl, err := Validate(cfg, []string{"42"}, &ValidateContext{})
	require.NoError(t, err)
	require.Equal(t, []string{"42"}, vl.Strings())
}

func TestValidateLink(t *testing.T) {
	cfg := &Config{Name: "Owner", Type: KindLink, LinkedFolder: "People"}
	ctx := &ValidateContext{
		LinkExists: func(folder, id string) (bool, error) {
			return folder == "People" && id == "item-1", nil
		},
	}
	_, err := Validate(cfg, []string{"missing"}, ctx)
	require.Error(t, err)

	vl, err := Validate(cfg, []string{"item-1"}, ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"item-1"}, vl.Strings())
}

func TestValidateCreatedByUsesContextUserID(t *testing.T) {
	cfg := &Config{Name: "Created By", Type: KindCreatedBy}
	ctx := &ValidateContext{UserID: "tester"}
	vl, err := Validate(cfg, nil, ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"tester"}, vl.Strings())
}

func TestValidateCreatedTimeUsesContextClock(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	cfg := &Config{Name: "Created", Type: KindCreatedTime}
	ctx := &ValidateContext{Now: func() time.Time { return fixed }}
	vl, err := Validate(cfg, nil, ctx)
	require.NoError(t, err)
	require.Len(t, vl, 1)
	require.Equal(t, []string{"2026-01-02T03:04:05Z"}, vl.Strings())
}

func TestRenderLinkSingleAndMany(t *testing.T) {
	cfg := &Config{Name: "Owner", Type: KindLink}
	rctx := &RenderContext{LinkNames: map[string]string{"item-1": "Ada"}}
	vl := NewValueList("item-1")

	rendered, err := Render(cfg, vl, rctx)
	require.NoError(t, err)
	ref, ok := rendered.(map[string]string)
	require.True(t, ok)
	require.Equal(t, "Ada", ref["Name"])

	cfg.Many = true
	rendered, err = Render(cfg, vl, rctx)
	require.NoError(t, err)
	refs, ok := rendered.([]map[string]string)
	require.True(t, ok)
	require.Len(t, refs, 1)
}

func TestMaterializeHydrateSelectRoundTrip(t *testing.T) {
	cfg := &Config{
		ID: "c1", Name: "Status", Type: KindSelect, Required: true,
		Options: []SelectOption{{ID: "open", Name: "Open"}},
	}
	flat, err := MaterializeConfig(cfg)
	require.NoError(t, err)

	restored, err := HydrateConfig(flat)
	require.NoError(t, err)
	require.Equal(t, cfg.Name, restored.Name)
	require.Equal(t, cfg.Type, restored.Type)
	require.Len(t, restored.Options, 1)
	require.Equal(t, "open", restored.Options[0].ID)
}

func TestMaterializeHydrateLinkRoundTrip(t *testing.T) {
	cfg := &Config{ID: "c2", Name: "Owner", Type: KindLink, LinkedFolder: "People", Many: true}
	flat, err := MaterializeConfig(cfg)
	require.NoError(t, err)

	restored, err := HydrateConfig(flat)
	require.NoError(t, err)
	require.Equal(t, "People", restored.LinkedFolder)
	require.True(t, restored.Many)
}

func TestKindIsValid(t *testing.T) {
	require.True(t, KindSmallText.IsValid())
	require.False(t, Kind("NotAKind").IsValid())
}
