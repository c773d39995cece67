package cli

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/narsis77/unpoly/internal/htmlform"
	"github.com/narsis77/unpoly/internal/params"
)

func newFormCommand(e *env) *cobra.Command {
	var (
		action    string
		asURL     bool
		attach    []string
		multipart bool
	)

	cmd := &cobra.Command{
		Use:   "form <file.html|-> <selector>",
		Short: "Print the params a form in an HTML document would submit",
		Example: `  upctl form page.html '#search'
  upctl form page.html 'form.upload' --attach avatar=me.png --multipart
  curl -s https://example.com | upctl form - 'form' --url`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := parseDocument(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			form, err := doc.Form(args[1])
			if err != nil {
				return err
			}
			for _, arg := range attach {
				name, blob, err := readAttachment(arg)
				if err != nil {
					return err
				}
				form.AttachFiles(name, blob)
			}

			p := params.FromForm(form)
			e.logger.Debug("form resolved",
				zap.String("selector", args[1]),
				zap.String("method", form.Method()),
				zap.Int("entries", p.Len()),
			)

			out := cmd.OutOrStdout()
			switch {
			case multipart:
				return printMultipart(out, p)
			case asURL || action != "":
				if action == "" {
					action = form.Action()
				}
				_, err := fmt.Fprintln(out, p.ToURL(action))
				return err
			default:
				return printParams(out, p, e.cfg.Output)
			}
		},
	}

	cmd.Flags().BoolVar(&asURL, "url", false, "print the GET URL for the form's action")
	cmd.Flags().StringVar(&action, "action", "", "print the GET URL for this action instead")
	cmd.Flags().StringArrayVar(&attach, "attach", nil, "attach a file to a file input, as name=path")
	cmd.Flags().BoolVar(&multipart, "multipart", false, "print the multipart/form-data body")
	return cmd
}

func parseDocument(stdin io.Reader, path string) (*htmlform.Document, error) {
	if path == "-" {
		return htmlform.Parse(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return htmlform.Parse(f)
}

// readAttachment loads a name=path attachment. The content type follows the
// file extension.
func readAttachment(arg string) (string, params.Blob, error) {
	name, path, ok := strings.Cut(arg, "=")
	if !ok || name == "" || path == "" {
		return "", nil, fmt.Errorf("attachment %q: want name=path", arg)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("attachment %q: %w", name, err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	return name, params.NewFile(filepath.Base(path), contentType, content), nil
}

func printMultipart(w io.Writer, p *params.Params) error {
	fd, err := p.ToFormData()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Content-Type: %s\n\n", fd.ContentType()); err != nil {
		return err
	}
	_, err = w.Write(fd.Bytes())
	return err
}
