package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// candidates are tried in order; mpg123 handles mp3 best.
var candidates = [][]string{
	{"mpg123", "-q"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
	{"play", "-q"},
	{"paplay"},
	{"aplay", "-q"},
}

// Player plays audio through an external command.
type Player struct {
	command  string
	dir      string
	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error
}

// NewPlayer creates a player. command overrides discovery; "{file}" in it is
// replaced with the audio path, otherwise the path is appended. Temporary
// files go to dir, or the system temp dir when empty.
func NewPlayer(command, dir string) *Player {
	return &Player{
		command:  command,
		dir:      dir,
		lookPath: exec.LookPath,
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

// Play writes audio to a temporary file and blocks until playback ends.
func (p *Player) Play(ctx context.Context, audio []byte) error {
	f, err := os.CreateTemp(p.dir, "lingodrill-*.mp3")
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(audio); err != nil {
		f.Close()
		return fmt.Errorf("write audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write audio file: %w", err)
	}

	name, args, err := p.resolve(f.Name())
	if err != nil {
		return err
	}
	if err := p.run(ctx, name, args...); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (p *Player) resolve(file string) (string, []string, error) {
	if fields := strings.Fields(p.command); len(fields) > 0 {
		args := fields[1:]
		replaced := false
		for i, a := range args {
			if strings.Contains(a, "{file}") {
				args[i] = strings.ReplaceAll(a, "{file}", file)
				replaced = true
			}
		}
		if !replaced {
			args = append(args, file)
		}
		return fields[0], args, nil
	}

	if runtime.GOOS == "darwin" {
		return "afplay", []string{file}, nil
	}
	for _, c := range candidates {
		if _, err := p.lookPath(c[0]); err == nil {
			return c[0], append(append([]string{}, c[1:]...), file), nil
		}
	}
	return "", nil, fmt.Errorf("no audio player found. Install mpg123, ffplay, sox, paplay, or aplay")
}
