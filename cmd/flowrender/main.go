// Command flowrender renders a small demo patch to a wav file.
//
// The patch is a sine oscillator through a swept lowpass and an
// equal-power panner, optionally wrapped in a feedback echo. Filter
// cutoff and pan are automated with sample-accurate events.
//
// Usage:
//
//	flowrender [flags]
//
// Examples:
//
//	flowrender -out demo.wav
//	flowrender -out echo.wav -echo -echo-delay 0.25
//	flowrender -dur 10 -freq 110 -rate 44100
package main

import (
	"flag"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-flow/flow/block"
	"github.com/cwbudde/algo-flow/flow/core"
	"github.com/cwbudde/algo-flow/flow/filter"
	"github.com/cwbudde/algo-flow/flow/gen"
	"github.com/cwbudde/algo-flow/flow/graph"
	"github.com/cwbudde/algo-flow/flow/sched"
	"github.com/cwbudde/algo-flow/flow/unit"
)

// scratch recycles render blocks between runs.
var scratch = block.NewPool()

func main() {
	var (
		outPath   = flag.String("out", "flowrender.wav", "output wav file")
		duration  = flag.Float64("dur", 5, "render duration in seconds")
		rate      = flag.Float64("rate", 48000, "sample rate in Hz")
		freq      = flag.Float64("freq", 220, "oscillator frequency in Hz")
		cutoff    = flag.Float64("cutoff", 4000, "initial lowpass cutoff in Hz")
		echo      = flag.Bool("echo", false, "wrap the patch in a feedback echo")
		echoDelay = flag.Float64("echo-delay", 0.3, "echo delay in seconds")
		echoGain  = flag.Float64("echo-gain", 0.5, "echo feedback gain")
		verbose   = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if err := run(log, *outPath, *duration, *rate, *freq, *cutoff, *echo, *echoDelay, *echoGain); err != nil {
		log.WithError(err).Fatal("render failed")
	}
}

func run(log *logrus.Logger, outPath string, duration, rate, freq, cutoff float64, echo bool, echoDelay, echoGain float64) error {
	patch, err := buildPatch(rate, freq, cutoff, echo, echoDelay, echoGain)
	if err != nil {
		return err
	}

	s, err := sched.New(patch,
		sched.WithSampleRate(rate),
		sched.WithErrorFunc(func(ev unit.Event, err error) {
			log.WithField("addr", ev.Addr).WithError(err).Warn("event rejected")
		}),
	)
	if err != nil {
		return err
	}

	frames := int(duration * rate)
	scheduleSweeps(s, frames, cutoff, echo)

	log.WithFields(logrus.Fields{
		"id":     s.ID(),
		"out":    outPath,
		"frames": frames,
		"rate":   rate,
		"echo":   echo,
	}).Info("rendering")

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, int(rate), 16, 2, 1)
	if err := render(s, enc, frames); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	log.Debug("render complete")
	return nil
}

// buildPatch wires osc -> lowpass -> pan, optionally into a stereo
// feedback echo.
func buildPatch(rate, freq, cutoff float64, echo bool, echoDelay, echoGain float64) (unit.Unit, error) {
	osc, err := gen.NewSine(freq)
	if err != nil {
		return nil, err
	}

	lp, err := filter.NewLowpass(cutoff, 0.707)
	if err != nil {
		return nil, err
	}

	pan, err := gen.NewPan(0)
	if err != nil {
		return nil, err
	}

	dry, err := graph.NewChain(nil, osc, lp, pan)
	if err != nil {
		return nil, err
	}
	if !echo {
		return dry, nil
	}

	tap, err := gen.NewGainN(echoGain, 2)
	if err != nil {
		return nil, err
	}
	fb, err := graph.NewFeedback(tap, int(echoDelay*rate))
	if err != nil {
		return nil, err
	}
	return graph.NewPipe(dry, fb)
}

// scheduleSweeps automates the cutoff downward and bounces the pan.
// Inside a NewChain fold the oscillator sits at 0/0, the filter at
// 0/1 and the panner at 1; an echo wrap prefixes everything with 0/.
func scheduleSweeps(s *sched.Scheduler, frames int, cutoff float64, echo bool) {
	prefix := ""
	if echo {
		prefix = "0/"
	}

	steps := 16
	for i := 0; i < steps; i++ {
		at := int64(i * frames / steps)
		t := float64(i) / float64(steps-1)
		_ = s.Schedule(unit.At(prefix+"0/1/freq", cutoff*(1-0.9*t), at))
		pan := 0.8
		if i%2 == 1 {
			pan = -0.8
		}
		_ = s.Schedule(unit.At(prefix+"1/pan", pan, at))
	}
}

// render streams blocks from the scheduler into the encoder as
// interleaved 16-bit PCM.
func render(s *sched.Scheduler, enc *wav.Encoder, frames int) error {
	const blockLen = 1024

	out := scratch.Get(2, blockLen)
	defer scratch.Put(out)
	view := block.NewView(2)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: enc.SampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, 2*blockLen),
	}

	for done := 0; done < frames; done += blockLen {
		n := blockLen
		if frames-done < n {
			n = frames - done
		}
		out.Sub(view, 0, n)
		if err := s.Render(view); err != nil {
			return err
		}

		buf.Data = buf.Data[:2*n]
		left, right := view.Channel(0), view.Channel(1)
		for i := 0; i < n; i++ {
			buf.Data[2*i] = int(core.Clamp11(left[i]) * 32767)
			buf.Data[2*i+1] = int(core.Clamp11(right[i]) * 32767)
		}
		if err := enc.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
