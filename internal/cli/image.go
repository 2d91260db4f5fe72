package cli

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/atelier/internal/content"
)

// maxImageFileBytes bounds files embedded as data URLs.
const maxImageFileBytes = 5 << 20

// ImageSetOptions holds flags for the image set command.
type ImageSetOptions struct {
	*RootOptions
	File string
}

// NewImageCommand creates the image command group.
func NewImageCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Manage image overrides",
	}
	cmd.AddCommand(newImageSetCommand(rootOpts))
	cmd.AddCommand(newImageListCommand(rootOpts))
	return cmd
}

func newImageSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImageSetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "set <image-key> [url]",
		Short: "Replace an image",
		Long: `Replace the image stored under a key.

The key is the image's stable id, or the URL of the image being replaced
when it has none. The new image is an http(s) URL, or a local file given
with --file, which is embedded as a data URL.

Examples:
  atelier image set https://example.com/img/portrait.jpg https://cdn.example.com/new.jpg
  atelier image set work-cover-1 --file ./cover.png`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImageSet(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "embed a local image file as a data URL")
	return cmd
}

func runImageSet(opts *ImageSetOptions, args []string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	key := args[0]

	var url string
	switch {
	case opts.File != "" && len(args) == 2:
		return f.Fail(ExitCommandError, ErrCodeGeneric, "give either a url or --file, not both", nil)
	case opts.File != "":
		u, err := dataURLFromFile(opts.File)
		if err != nil {
			return f.Fail(ExitFailure, ErrCodeInvalidImage, "cannot use image file", err)
		}
		url = u
	case len(args) == 2:
		url = args[1]
	default:
		return f.Fail(ExitCommandError, ErrCodeGeneric, "an image url or --file is required", nil)
	}

	ctx := commandContext(cmd)
	ws, err := openWorkspace(ctx, opts.RootOptions, cmd)
	if err != nil {
		return failWorkspace(f, err)
	}
	defer ws.Close()

	if err := ws.controller().SetImage(ctx, key, url); err != nil {
		return failEdit(f, err)
	}

	if f.Format == "json" {
		return f.Success(content.ImageEntry{Key: key, URL: url})
	}
	return f.Success(fmt.Sprintf("✓ image %s replaced", key))
}

// dataURLFromFile reads an image file into a base64 data URL, the same
// form a browser file reader produces.
func dataURLFromFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > maxImageFileBytes {
		return "", fmt.Errorf("%s is %d bytes, limit is %d", path, info.Size(), maxImageFileBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%s is %s, not an image", path, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func newImageListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List image overrides",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd, func(ws *workspace) *content.Store { return ws.images })
		},
	}
}
