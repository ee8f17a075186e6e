package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gravitrone/registry-console/internal/ui/components"
)

func TestRenderBannerIncludesSubtitleAndNoOSC(t *testing.T) {
	out := RenderBanner()
	assert.NotContains(t, out, "\x1b]")

	clean := components.SanitizeText(out)
	assert.Contains(t, clean, "Company Registry")
	assert.Contains(t, clean, "Command-Line Console")
	assert.Contains(t, clean, "─")
}
