package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const numberChars = "1234567890.-"

// percent of the map extent to plane units
const percentToPlane = 0.01

type coordinatePrompt struct {
	in  *bufio.Scanner
	out io.Writer
}

func newCoordinatePrompt(in io.Reader, out io.Writer) *coordinatePrompt {
	s := bufio.NewScanner(in)
	s.Split(bufio.ScanWords)
	return &coordinatePrompt{in: s, out: out}
}

// ask prints label and reads one whitespace separated token as a number.
func (p *coordinatePrompt) ask(label string) (float64, error) {
	fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	return parseNumber(p.in.Text())
}

// parseNumber accepts tokens made only of digits, '.' and '-'.
func parseNumber(token string) (float64, error) {
	if token == "" || strings.IndexFunc(token, func(r rune) bool {
		return !strings.ContainsRune(numberChars, r)
	}) >= 0 {
		return 0, fmt.Errorf("invalid number: %s", token)
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", token)
	}
	return v, nil
}

type routeInput struct {
	StartX, StartY float64
	EndX, EndY     float64
}

func (p *coordinatePrompt) readRoute() (routeInput, error) {
	var in routeInput
	steps := []struct {
		label string
		dst   *float64
	}{
		{"Enter the start X position: ", &in.StartX},
		{"Enter the start Y position: ", &in.StartY},
		{"Enter the end X position: ", &in.EndX},
		{"Enter the end Y position: ", &in.EndY},
	}
	for _, s := range steps {
		v, err := p.ask(s.label)
		if err != nil {
			return routeInput{}, err
		}
		*s.dst = v
	}
	return in, nil
}
