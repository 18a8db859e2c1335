// Command geninvoico drives the invoice pipeline from the terminal: build or
// load an invoice, capture its preview, and save it to the store or export it
// as a PDF.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/webappproject/geninvoico/internal/bridge"
	"github.com/webappproject/geninvoico/internal/config"
	"github.com/webappproject/geninvoico/internal/model"
	"github.com/webappproject/geninvoico/internal/render"
	"github.com/webappproject/geninvoico/internal/session"
	"github.com/webappproject/geninvoico/internal/storage"
	"github.com/webappproject/geninvoico/internal/storeapi"
	"github.com/webappproject/geninvoico/internal/template"
	"github.com/webappproject/geninvoico/internal/totals"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "geninvoico",
		Usage: "create, store and export invoices",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "store",
				Usage:   "base URL of the invoice store API",
				EnvVars: []string{"STORE_BASE_URL"},
			},
		},
		Commands: []*cli.Command{
			listCommand(),
			showCommand(),
			saveCommand(),
			downloadCommand(),
			deleteCommand(),
			templatesCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func storeClient(c *cli.Context) storeapi.Client {
	base := c.String("store")
	if base == "" {
		base = config.Load().StoreBaseURL
	}
	return storeapi.New(base)
}

func newBridge(c *cli.Context) (*bridge.Bridge, error) {
	cfg := config.Load()

	var objStore storage.ObjectStorage
	switch cfg.Storage {
	case "s3":
		s3, err := storage.NewS3Store(cfg.S3Region, cfg.S3Bucket)
		if err != nil {
			return nil, err
		}
		objStore = s3
	default:
		objStore = storage.NewCloudinaryClient(cfg.CloudinaryBaseURL, cfg.CloudinaryCloud)
	}

	capturer := render.NewChromeCapturer(cfg.ChromePath)
	capturer.Timeout = 30 * time.Second
	return bridge.New(capturer, storeClient(c), objStore), nil
}

// loadSession opens an editing session from -f (a JSON invoice file), from a
// stored invoice id, or over a fresh invoice when neither is given.
func loadSession(c *cli.Context) (*session.Session, error) {
	if path := c.String("file"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var inv model.Invoice
		if err := json.Unmarshal(raw, &inv); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return session.Open(inv), nil
	}
	if id := c.String("id"); id != "" {
		inv, err := storeClient(c).Get(c.Context, id)
		if err != nil {
			return nil, err
		}
		return session.Open(inv), nil
	}
	return session.New(), nil
}

func invoiceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "JSON invoice file to load"},
		&cli.StringFlag{Name: "id", Usage: "stored invoice id to load"},
		&cli.StringFlag{Name: "template", Aliases: []string{"t"}, Usage: "template id to apply"},
	}
}

func applyTemplate(c *cli.Context, sess *session.Session) error {
	id := c.String("template")
	if id == "" {
		return nil
	}
	if err := sess.SelectTemplate(id); err != nil {
		return fmt.Errorf("template %s: %w", id, err)
	}
	return nil
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list stored invoices, newest first",
		Action: func(c *cli.Context) error {
			invoices, err := storeClient(c).List(c.Context)
			if err != nil {
				return err
			}
			if len(invoices) == 0 {
				fmt.Println("no invoices stored")
				return nil
			}
			fmt.Printf("%-36s  %-12s  %-24s  %12s\n", "ID", "NUMBER", "TITLE", "TOTAL")
			for _, inv := range invoices {
				t := totals.Compute(inv.Items, inv.Tax)
				fmt.Printf("%-36s  %-12s  %-24s  %12s\n",
					inv.ID, inv.Meta.Number, inv.Title, totals.Format(t.GrandTotal))
			}
			return nil
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "print one stored invoice as JSON",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: geninvoico show <id>", 2)
			}
			inv, err := storeClient(c).Get(c.Context, c.Args().First())
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(inv, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func saveCommand() *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "capture the invoice preview, upload assets and save to the store",
		Flags: invoiceFlags(),
		Action: func(c *cli.Context) error {
			sess, err := loadSession(c)
			if err != nil {
				return err
			}
			if err := applyTemplate(c, sess); err != nil {
				return err
			}
			br, err := newBridge(c)
			if err != nil {
				return err
			}
			saved, err := br.Save(c.Context, sess)
			if err != nil {
				return err
			}
			fmt.Printf("saved %s (%s)\n", saved.Meta.Number, saved.ID)
			fmt.Printf("thumbnail: %s\n", saved.ThumbnailURL)
			return nil
		},
	}
}

func downloadCommand() *cli.Command {
	return &cli.Command{
		Name:  "download",
		Usage: "capture the invoice preview and write it as a paginated PDF",
		Flags: append(invoiceFlags(),
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output directory", Value: "."},
		),
		Action: func(c *cli.Context) error {
			sess, err := loadSession(c)
			if err != nil {
				return err
			}
			if err := applyTemplate(c, sess); err != nil {
				return err
			}
			br, err := newBridge(c)
			if err != nil {
				return err
			}
			data, name, err := br.Download(c.Context, sess)
			if err != nil {
				return err
			}
			path := filepath.Join(c.String("out"), name)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("wrote %s (%d bytes)\n", path, len(data))
			return nil
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "delete a stored invoice",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: geninvoico delete <id>", 2)
			}
			id := c.Args().First()
			if err := storeClient(c).Delete(c.Context, id); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", id)
			return nil
		},
	}
}

func templatesCommand() *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: "list the available invoice templates",
		Action: func(c *cli.Context) error {
			for _, info := range template.All() {
				marker := " "
				if info.ID == template.Default {
					marker = "*"
				}
				fmt.Printf("%s %-10s  %s\n", marker, info.ID, info.Label)
			}
			return nil
		},
	}
}
