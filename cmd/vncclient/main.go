// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

// Command vncclient connects to a VNC server, drives a brief automated
// session, and dumps a PNG snapshot of the framebuffer (§4.9).
package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	vnc "github.com/rfjohnson/go-vnc"
)

var v = viper.New()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "vncclient"))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vncclient",
		Short: "Connect to a VNC server and snapshot its framebuffer",
		RunE:  runSnapshot,
	}

	flags := cmd.Flags()
	flags.String("addr", "localhost:5900", "host:port of the VNC server")
	flags.String("password", "", "VNC authentication password, if required")
	flags.Duration("timeout", 10*time.Second, "connection and handshake timeout")
	flags.Duration("wait", 2*time.Second, "time to wait for an update before snapshotting")
	flags.String("out", "snapshot.png", "output PNG path")
	flags.Bool("view-only", false, "suppress keyboard/pointer/clipboard input")

	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}
	v.SetEnvPrefix("VNCCLIENT")
	v.AutomaticEnv()

	return cmd
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	logger := vnc.NewDefaultZerologLogger()

	addr := v.GetString("addr")
	timeout := v.GetDuration("timeout")

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "dial %s", addr)
	}

	auth := []vnc.ClientAuth{&vnc.PasswordAuth{Password: v.GetString("password")}, &vnc.ClientAuthNone{}}

	eventCh := make(chan vnc.Event, 16)

	client, err := vnc.ClientWithOptions(ctx, conn,
		vnc.WithAuth(auth...),
		vnc.WithLogger(logger),
		vnc.WithEventChannel(eventCh),
		vnc.WithViewOnly(v.GetBool("view-only")),
		vnc.WithConnectTimeout(timeout),
	)
	if err != nil {
		_ = conn.Close()
		return errors.Wrap(err, "VNC handshake failed")
	}
	defer func() { _ = client.Close() }()

	wait := v.GetDuration("wait")
	waitCtx, waitCancel := context.WithTimeout(ctx, wait)
	defer waitCancel()

	select {
	case ev := <-eventCh:
		logger.Info("received initial event", vnc.Field{Key: "type", Value: fmt.Sprintf("%T", ev)})
	case <-waitCtx.Done():
		logger.Warn("timed out waiting for a framebuffer update, snapshotting whatever is buffered")
	}

	return writeSnapshot(client.Framebuffer(), v.GetString("out"))
}

func writeSnapshot(fb *vnc.Framebuffer, path string) error {
	pix, width, height := fb.Snapshot()

	img := image.NewNRGBA(image.Rect(0, 0, int(width), int(height)))
	for y := 0; y < int(height); y++ {
		for x := 0; x < int(width); x++ {
			word := pix[y*int(width)+x]
			r := uint8(word >> 16) // #nosec G115 - canonical format packs 8-bit channels
			g := uint8(word >> 8)  // #nosec G115 - canonical format packs 8-bit channels
			b := uint8(word)       // #nosec G115 - canonical format packs 8-bit channels
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}

	f, err := os.Create(path) // #nosec G304 - path comes from an operator-supplied CLI flag
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() { _ = f.Close() }()

	if err := png.Encode(f, img); err != nil {
		return errors.Wrap(err, "encode PNG")
	}
	return nil
}

