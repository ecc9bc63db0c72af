// Package audio wraps raw PCM speech output in a WAV container.
package audio

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

const headerSize = 44

// Format describes interleaved little-endian PCM samples.
type Format struct {
	Channels   int
	SampleRate int
	BitDepth   int
}

// SpeechFormat is what the speech model emits: mono, 24 kHz, 16-bit.
var SpeechFormat = Format{Channels: 1, SampleRate: 24000, BitDepth: 16}

func (f Format) validate() error {
	if f.Channels <= 0 || f.SampleRate <= 0 {
		return fmt.Errorf("audio: invalid format %+v", f)
	}
	if f.BitDepth <= 0 || f.BitDepth%8 != 0 {
		return fmt.Errorf("audio: unsupported bit depth %d", f.BitDepth)
	}
	return nil
}

func (f Format) blockAlign() int {
	return f.Channels * f.BitDepth / 8
}

// EncodeWAV returns pcm wrapped in a canonical 44-byte RIFF/WAVE header.
// Samples are copied verbatim; no resampling happens.
func EncodeWAV(pcm []byte, f Format) ([]byte, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(make([]byte, 0, headerSize+len(pcm)))
	buf.WriteString("RIFF")
	writeUint32(buf, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	writeUint32(buf, 16)
	writeUint16(buf, 1) // PCM
	writeUint16(buf, uint16(f.Channels))
	writeUint32(buf, uint32(f.SampleRate))
	writeUint32(buf, uint32(f.SampleRate*f.blockAlign()))
	writeUint16(buf, uint16(f.blockAlign()))
	writeUint16(buf, uint16(f.BitDepth))

	buf.WriteString("data")
	writeUint32(buf, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes(), nil
}

// WAVBase64 encodes pcm as WAV and returns it base64-encoded.
func WAVBase64(pcm []byte, f Format) (string, error) {
	wav, err := EncodeWAV(pcm, f)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(wav), nil
}

// DataURI encodes pcm as a data:audio/wav URI.
func DataURI(pcm []byte, f Format) (string, error) {
	encoded, err := WAVBase64(pcm, f)
	if err != nil {
		return "", err
	}
	return "data:audio/wav;base64," + encoded, nil
}

// FormatFromMIME reads the sample rate from a MIME type such as
// "audio/L16;codec=pcm;rate=24000". Missing or malformed parameters keep
// the SpeechFormat defaults.
func FormatFromMIME(mimeType string) Format {
	f := SpeechFormat
	for _, param := range strings.Split(mimeType, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(key, "rate") {
			continue
		}
		if rate, err := strconv.Atoi(value); err == nil && rate > 0 {
			f.SampleRate = rate
		}
	}
	return f
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}
