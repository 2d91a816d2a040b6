package standard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModesDerivesSetFromSettings(t *testing.T) {

	settings := &Settings{Remediate: true, Report: true}
	modes := settings.Modes()

	assert.True(t, modes.Contains(ModeRemediate))
	assert.False(t, modes.Contains(ModeAlert))
	assert.True(t, modes.Contains(ModeReport))
	assert.False(t, modes.IsEmpty())
}

func TestModesOfEmptySettingsIsEmpty(t *testing.T) {

	settings := &Settings{}
	modes := settings.Modes()

	assert.True(t, modes.IsEmpty())
	for _, mode := range AllModes() {
		assert.False(t, modes.Contains(mode))
	}
}

func TestAllModesKeepsRemediationFirst(t *testing.T) {

	assert.Equal(t, []Mode{ModeRemediate, ModeAlert, ModeReport}, AllModes())
}

func TestModeString(t *testing.T) {

	assert.Equal(t, "remediate", ModeRemediate.String())
	assert.Equal(t, "alert", ModeAlert.String())
	assert.Equal(t, "report", ModeReport.String())
	assert.Equal(t, "unknown", Mode(42).String())
}
