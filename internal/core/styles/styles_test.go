package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestForVerdict(t *testing.T) {
	assert.Equal(t, Success, ForVerdict("DONE"))
	assert.Equal(t, Warning, ForVerdict("IN_PROGRESS"))
	assert.Equal(t, Error, ForVerdict("NOT_STARTED"))
	assert.Equal(t, Muted, ForVerdict("UNKNOWN"))
}

func TestForTicketStatus(t *testing.T) {
	assert.Equal(t, Success, ForTicketStatus("completed"))
	assert.Equal(t, Warning, ForTicketStatus("in-progress"))
	assert.Equal(t, lipgloss.NewStyle(), ForTicketStatus("open"))
}
