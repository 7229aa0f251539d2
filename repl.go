//go:build !js

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"locobasic/pkg/compiler"
	"locobasic/pkg/utils"
)

const replBanner = `locobasic: type numbered BASIC lines, then :compile. :help lists commands.`

// program is the line-numbered buffer edited in the REPL. Entering a line
// with an existing label replaces it; a bare label deletes it.
type program struct {
	lines map[int]string
}

func newProgram() *program {
	return &program{lines: make(map[int]string)}
}

// enter stores one numbered line. It reports false for input without a label.
func (p *program) enter(line string) bool {
	line = strings.TrimSpace(line)
	end := 0
	for end < len(line) && line[end] >= '0' && line[end] <= '9' {
		end++
	}
	if end == 0 {
		return false
	}
	label, err := strconv.Atoi(line[:end])
	if err != nil {
		return false
	}
	if strings.TrimSpace(line[end:]) == "" {
		delete(p.lines, label)
		return true
	}
	p.lines[label] = line
	return true
}

// source returns the buffer in label order.
func (p *program) source() string {
	labels := make([]int, 0, len(p.lines))
	for label := range p.lines {
		labels = append(labels, label)
	}
	sort.Ints(labels)
	var sb strings.Builder
	for _, label := range labels {
		sb.WriteString(p.lines[label])
		sb.WriteByte('\n')
	}
	return sb.String()
}

func runRepl(c *compiler.Compiler, cfg utils.Config) int {
	fmt.Println(replBanner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if cfg.History != "" {
		if f, err := os.Open(cfg.History); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(cfg.History); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	prog := newProgram()
	for {
		line, err := ln.Prompt("] ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return 0
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			return 1
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		if strings.HasPrefix(strings.TrimSpace(line), ":") {
			if quit := replCommand(c, prog, cfg, strings.Fields(line)); quit {
				return 0
			}
			continue
		}
		if !prog.enter(line) {
			fmt.Println("line number expected")
		}
	}
}

// replCommand executes a ":" command and reports whether the REPL should exit.
func replCommand(c *compiler.Compiler, prog *program, cfg utils.Config, args []string) bool {
	switch strings.ToLower(args[0]) {
	case ":quit", ":q":
		return true
	case ":list":
		fmt.Print(prog.source())
	case ":new":
		*prog = *newProgram()
	case ":compile":
		compileTo(c, prog.source(), "-", cfg.Dump)
	case ":save":
		if len(args) < 2 {
			fmt.Println("usage: :save <file.js>")
			break
		}
		compileTo(c, prog.source(), args[1], cfg.Dump)
	case ":help":
		fmt.Println(":list  :new  :compile  :save <file.js>  :quit")
	default:
		fmt.Println("unknown command. Type :help for a list.")
	}
	return false
}
