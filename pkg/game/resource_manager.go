package game

import (
	"bytes"
	"fmt"
	"log"

	"github.com/decker502/yarnview/pkg/config"
	"github.com/decker502/yarnview/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// defaultFontKey 内置 Go Regular 字体在缓存中的键
const defaultFontKey = "<goregular>"

// ResourceManager is responsible for loading and caching the fonts used by the dialogue view.
// Font sources are parsed once per file; faces are cached per (path, size).
//
// Thread Safety Note:
// This implementation is NOT thread-safe. Fonts are loaded from the game loop goroutine.
//
// Usage:
//
//	rm := NewResourceManager()
//	face, err := rm.LoadFont("data/fonts/custom.ttf", 16)
type ResourceManager struct {
	sourceCache   map[string]*text.GoTextFaceSource // Parsed font sources: path -> source
	fontFaceCache map[string]*text.GoTextFace       // Faces: "path:size" -> face
}

// NewResourceManager creates a ResourceManager with empty caches.
func NewResourceManager() *ResourceManager {
	return &ResourceManager{
		sourceCache:   make(map[string]*text.GoTextFaceSource),
		fontFaceCache: make(map[string]*text.GoTextFace),
	}
}

// LoadFont loads a TrueType/OpenType font at the given size.
// An empty path selects the built-in Go Regular font.
// The file is looked up on disk first and then among embedded resources.
//
// Returns:
//   - A pointer to the text.GoTextFace ready for rendering.
//   - An error if the file cannot be read or parsed.
func (rm *ResourceManager) LoadFont(path string, size float64) (*text.GoTextFace, error) {
	key := path
	if key == "" {
		key = defaultFontKey
	}

	// Create cache key combining path and size
	cacheKey := fmt.Sprintf("%s:%.1f", key, size)
	if cachedFace, exists := rm.fontFaceCache[cacheKey]; exists {
		return cachedFace, nil
	}

	source, err := rm.loadSource(key)
	if err != nil {
		return nil, err
	}

	goTextFace := &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.fontFaceCache[cacheKey] = goTextFace
	return goTextFace, nil
}

// LoadDialogueFont 按界面配置加载字体
// 配置的字体加载失败时回退到内置字体
func (rm *ResourceManager) LoadDialogueFont(cfg *config.DialogueViewConfig) *text.GoTextFace {
	face, err := rm.LoadFont(cfg.FontPath, cfg.FontSize)
	if err == nil {
		return face
	}

	log.Printf("[ResourceManager] Warning: %v (falling back to Go Regular)", err)
	face, err = rm.LoadFont("", cfg.FontSize)
	if err != nil {
		// goregular.TTF 是编译期常量数据，解析失败说明构建损坏
		panic(fmt.Sprintf("[ResourceManager] built-in font is unusable: %v", err))
	}
	return face
}

// GetFont retrieves a previously loaded font face from the cache.
// If the font has not been loaded yet, it returns nil.
func (rm *ResourceManager) GetFont(path string, size float64) *text.GoTextFace {
	if path == "" {
		path = defaultFontKey
	}
	return rm.fontFaceCache[fmt.Sprintf("%s:%.1f", path, size)]
}

// loadSource parses (or returns the cached) font source for key.
func (rm *ResourceManager) loadSource(key string) (*text.GoTextFaceSource, error) {
	if source, ok := rm.sourceCache[key]; ok {
		return source, nil
	}

	var fontData []byte
	if key == defaultFontKey {
		fontData = goregular.TTF
	} else {
		data, err := embedded.ReadFileOrDisk(key)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file %s: %w", key, err)
		}
		fontData = data
	}

	source, err := text.NewGoTextFaceSource(bytes.NewReader(fontData))
	if err != nil {
		return nil, fmt.Errorf("failed to create font source for %s: %w", key, err)
	}

	rm.sourceCache[key] = source
	log.Printf("[ResourceManager] Loaded font %s", key)
	return source, nil
}
