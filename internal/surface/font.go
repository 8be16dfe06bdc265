package surface

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFontSize matches the text overlay default.
const DefaultFontSize = 16

// Font selects a face for text annotations. Family is matched loosely
// against the bundled Go fonts.
type Font struct {
	Family string
	Size   float64
}

var (
	fontMu      sync.Mutex
	fontSources = map[string]*text.FontSource{}
)

func familyData(family string) (string, []byte) {
	f := strings.ToLower(family)
	switch {
	case strings.Contains(f, "mono"), strings.Contains(f, "courier"):
		return "mono", gomono.TTF
	case strings.Contains(f, "bold"):
		return "bold", gobold.TTF
	case strings.Contains(f, "italic"):
		return "italic", goitalic.TTF
	}
	return "regular", goregular.TTF
}

func fontSource(family string) (*text.FontSource, error) {
	key, data := familyData(family)
	fontMu.Lock()
	defer fontMu.Unlock()
	if src, ok := fontSources[key]; ok {
		return src, nil
	}
	src, err := text.NewFontSource(data)
	if err != nil {
		return nil, fmt.Errorf("load %s font: %w", key, err)
	}
	fontSources[key] = src
	return src, nil
}

func (f Font) face() (text.Face, error) {
	size := f.Size
	if size <= 0 {
		size = DefaultFontSize
	}
	src, err := fontSource(f.Family)
	if err != nil {
		return nil, err
	}
	return src.Face(size), nil
}
