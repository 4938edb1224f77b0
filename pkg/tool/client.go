package tool

import (
	"github.com/citypulse-ai/citypulse/pkg/adapter"
	"github.com/citypulse-ai/citypulse/pkg/interfaces"
)

// Client contains shared resources that tools can use
type Client struct {
	Repo   interfaces.Repository
	Cache  interfaces.Cache
	Gemini adapter.Gemini
}
