package genai

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"regexp"
	"strconv"
	"strings"

	"fakepost/internal/gateway"
)

const (
	syntheticPrefix     = "synthetic://"
	syntheticSampleRate = 24000
)

var dimensionPattern = regexp.MustCompile(`(\d{2,4})x(\d{2,4})`)

var syntheticWords = []string{
	"sunny", "river", "coffee", "maple", "orbit", "velvet", "harbor", "pixel",
	"meadow", "lantern", "cobalt", "ember", "willow", "summit", "quartz", "breeze",
}

func (c *Client) syntheticText(req gateway.TextRequest) (string, error) {
	seed := deterministicSeed(req.Model, req.Prompt)
	var value any = fmt.Sprintf("Synthetic reply %s", seed[:6])
	if req.Schema != nil {
		value = syntheticValue(req.Schema, seed, "$")
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("marshal synthetic payload: %w", err)
	}
	c.logger.Debug().Str("model", req.Model).Msg("genai: generated synthetic text")
	return string(raw), nil
}

func (c *Client) syntheticMedia(req gateway.MediaRequest) *gateway.Media {
	seed := deterministicSeed(req.Model, req.Prompt, req.Voice)
	if req.Modality == gateway.ModalityAudio {
		seconds := len(strings.Fields(req.Prompt)) * 2 / 5
		if seconds < 1 {
			seconds = 1
		}
		c.logger.Debug().Str("model", req.Model).Int("seconds", seconds).Msg("genai: generated synthetic audio")
		return &gateway.Media{
			MIMEType: fmt.Sprintf("audio/L16;codec=pcm;rate=%d", syntheticSampleRate),
			Data:     make([]byte, seconds*syntheticSampleRate*2),
		}
	}

	width, height := promptDimensions(req.Prompt)
	c.logger.Debug().Str("model", req.Model).Int("width", width).Int("height", height).Msg("genai: generated synthetic image")
	return &gateway.Media{MIMEType: "image/png", Data: renderSyntheticImage(width, height, seed)}
}

func (c *Client) syntheticOperation(req gateway.VideoRequest) *gateway.Operation {
	seed := deterministicSeed(req.Model, req.Prompt, req.AspectRatio, req.DurationSeconds)
	return &gateway.Operation{
		Name:   syntheticPrefix + "operations/" + seed,
		Done:   true,
		Videos: []gateway.VideoPart{{URI: syntheticPrefix + "videos/" + seed, MIMEType: "video/mp4"}},
	}
}

func (c *Client) syntheticDownload(uri string) ([]byte, string, error) {
	seed := strings.TrimPrefix(uri, syntheticPrefix+"videos/")
	lines := []string{
		"Synthetic video placeholder",
		fmt.Sprintf("Seed: %s", seed),
		"Rendered video bytes are served here once a Gemini API key is configured.",
	}
	return []byte(strings.Join(lines, "\n")), "video/mp4", nil
}

// syntheticValue builds a value matching s. Optional object properties are
// included for roughly a third of the paths so nested shapes get exercised.
func syntheticValue(s *gateway.Schema, seed, path string) any {
	switch s.Type {
	case gateway.TypeObject:
		required := make(map[string]bool, len(s.Required))
		for _, name := range s.Required {
			required[name] = true
		}
		out := make(map[string]any, len(s.Properties))
		for _, name := range propertyNames(s) {
			prop := s.Properties[name]
			if prop == nil {
				continue
			}
			childPath := path + "." + name
			if !required[name] && pathHash(seed, childPath)%3 != 0 {
				continue
			}
			out[name] = syntheticValue(prop, seed, childPath)
		}
		return out
	case gateway.TypeArray:
		n := 1 + int(pathHash(seed, path)%2)
		if s.MinItems != nil && int(*s.MinItems) > n {
			n = int(*s.MinItems)
		}
		if s.MaxItems != nil && int(*s.MaxItems) < n {
			n = int(*s.MaxItems)
		}
		items := make([]any, 0, n)
		for i := 0; i < n; i++ {
			if s.Items == nil {
				break
			}
			items = append(items, syntheticValue(s.Items, seed, fmt.Sprintf("%s[%d]", path, i)))
		}
		return items
	case gateway.TypeInteger:
		return int(pathHash(seed, path) % 100)
	case gateway.TypeBoolean:
		return pathHash(seed, path)%2 == 0
	default:
		h := pathHash(seed, path)
		first := syntheticWords[h%uint64(len(syntheticWords))]
		second := syntheticWords[(h/16)%uint64(len(syntheticWords))]
		return fmt.Sprintf("%s %s", first, second)
	}
}

func propertyNames(s *gateway.Schema) []string {
	if len(s.PropertyOrdering) > 0 {
		return s.PropertyOrdering
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	return names
}

func pathHash(seed, path string) uint64 {
	sum := sha256.Sum256([]byte(seed + "|" + path))
	var h uint64
	for _, b := range sum[:8] {
		h = h<<8 | uint64(b)
	}
	return h
}

func promptDimensions(prompt string) (int, int) {
	m := dimensionPattern.FindStringSubmatch(prompt)
	if len(m) == 3 {
		w, errW := strconv.Atoi(m[1])
		h, errH := strconv.Atoi(m[2])
		if errW == nil && errH == nil && w > 0 && h > 0 {
			return w, h
		}
	}
	return 400, 400
}

func renderSyntheticImage(width, height int, seed string) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	base := colorFromSeed(seed, 0)
	accent := colorFromSeed(seed, 1)
	draw.Draw(img, img.Bounds(), &image.Uniform{base}, image.Point{}, draw.Src)

	stripeHeight := max(8, height/12)
	for y := 0; y < height; y += stripeHeight * 2 {
		stripe := image.Rect(0, y, width, min(height, y+stripeHeight))
		draw.Draw(img, stripe, &image.Uniform{accent}, image.Point{}, draw.Over)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

func colorFromSeed(seed string, shift int) color.RGBA {
	if len(seed) < 6 {
		seed = "000000"
	}
	doubled := seed + seed
	start := (shift * 6) % len(seed)
	segment := doubled[start : start+6]
	return color.RGBA{
		R: parseHexByte(segment[0:2]),
		G: parseHexByte(segment[2:4]),
		B: parseHexByte(segment[4:6]),
		A: 255,
	}
}

func parseHexByte(s string) uint8 {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}

func deterministicSeed(parts ...any) string {
	hasher := sha256.New()
	for _, part := range parts {
		fmt.Fprintf(hasher, "%v|", part)
	}
	return hex.EncodeToString(hasher.Sum(nil))[:16]
}
