package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/fekuna/amigurumi-order-service/internal/catalog/dto"
	"github.com/fekuna/amigurumi-order-service/internal/model"
	"github.com/fekuna/amigurumi-order-service/internal/pricing"
)

type catalogAdmin interface {
	ListItems(ctx context.Context, category model.ItemCategory) ([]model.InventoryItem, error)
	CreateItem(ctx context.Context, input *dto.CreateItemInput) (*model.InventoryItem, error)
	Snapshot(ctx context.Context) (*pricing.Catalog, error)
}

type configReader interface {
	Get(ctx context.Context) (model.GlobalConfig, error)
}

type accounts interface {
	SignUp(ctx context.Context, email, password string, role model.Role) (string, error)
	ConfirmEmail(ctx context.Context, email string) error
}

type services struct {
	migrate  func() error
	catalog  catalogAdmin
	settings configReader
	accounts accounts
	close    func()
}

type opener func(c *cli.Context) (*services, error)

var defaultCatalog = []dto.CreateItemInput{
	{Category: model.CategorySize, Label: "15cm", Price: 45000},
	{Category: model.CategorySize, Label: "20cm", Price: 65000},
	{Category: model.CategorySize, Label: "25cm", Price: 85000},
	{Category: model.CategorySize, Label: "30cm", Price: 110000},
	{Category: model.CategoryPackaging, Label: "Bolsa de tela", Price: 5000},
	{Category: model.CategoryPackaging, Label: "Caja Cartón G", Price: 10000},
	{Category: model.CategoryAccessory, Label: "Corona", Price: 8000},
	{Category: model.CategoryAccessory, Label: "Llavero", Price: 6000},
	{Category: model.CategoryAccessory, Label: "Moño", Price: 4000},
}

func newApp(open opener, out io.Writer) *cli.App {
	withServices := func(fn func(c *cli.Context, s *services) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			s, err := open(c)
			if err != nil {
				return err
			}
			if s.close != nil {
				defer s.close()
			}
			return fn(c, s)
		}
	}

	return &cli.App{
		Name:      "storefrontctl",
		Usage:     "admin tools for the amigurumi storefront",
		Writer:    out,
		ErrWriter: out,
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "apply pending database migrations",
				Action: withServices(func(c *cli.Context, s *services) error {
					if err := s.migrate(); err != nil {
						return err
					}
					fmt.Fprintln(out, "schema is up to date")
					return nil
				}),
			},
			{
				Name:  "quote",
				Usage: "price a selection against the current catalog and settings",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "size", Usage: "size item id or label"},
					&cli.Int64Flag{Name: "manual-price", Usage: "base price when no size is selected"},
					&cli.StringFlag{Name: "packaging", Usage: "packaging item id or label"},
					&cli.StringSliceFlag{Name: "accessory", Usage: "accessory item id or label, repeatable"},
					&cli.StringFlag{Name: "choice", Value: string(model.PaymentFull), Usage: "full or partial"},
				},
				Action: withServices(runQuote(out)),
			},
			{
				Name:  "seed-catalog",
				Usage: "load the default inventory when the catalog is empty",
				Action: withServices(func(c *cli.Context, s *services) error {
					existing, err := s.catalog.ListItems(c.Context, "")
					if err != nil {
						return err
					}
					if len(existing) > 0 {
						fmt.Fprintf(out, "catalog already has %d items, nothing to do\n", len(existing))
						return nil
					}
					for i := range defaultCatalog {
						in := defaultCatalog[i]
						if _, err := s.catalog.CreateItem(c.Context, &in); err != nil {
							return errors.Wrapf(err, "seed %s %q", in.Category, in.Label)
						}
					}
					fmt.Fprintf(out, "seeded %d items\n", len(defaultCatalog))
					return nil
				}),
			},
			{
				Name:  "create-admin",
				Usage: "create a confirmed admin account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"ADMIN_PASSWORD"}},
				},
				Action: withServices(func(c *cli.Context, s *services) error {
					email := c.String("email")
					if _, err := s.accounts.SignUp(c.Context, email, c.String("password"), model.RoleAdmin); err != nil {
						return err
					}
					if err := s.accounts.ConfirmEmail(c.Context, email); err != nil {
						return err
					}
					fmt.Fprintf(out, "admin %s created\n", strings.ToLower(strings.TrimSpace(email)))
					return nil
				}),
			},
			{
				Name:  "confirm-email",
				Usage: "mark an account email as confirmed",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
				},
				Action: withServices(func(c *cli.Context, s *services) error {
					if err := s.accounts.ConfirmEmail(c.Context, c.String("email")); err != nil {
						return err
					}
					fmt.Fprintln(out, "email confirmed")
					return nil
				}),
			},
		},
	}
}

func runQuote(out io.Writer) func(c *cli.Context, s *services) error {
	return func(c *cli.Context, s *services) error {
		items, err := s.catalog.ListItems(c.Context, "")
		if err != nil {
			return err
		}
		resolve := func(ref string, category model.ItemCategory) (string, error) {
			if ref == "" {
				return "", nil
			}
			for _, it := range items {
				if it.Category == category && (it.ID == ref || strings.EqualFold(it.Label, ref)) {
					return it.ID, nil
				}
			}
			return "", fmt.Errorf("no %s named %q", category, ref)
		}

		var sel pricing.Selection
		sizeID, err := resolve(c.String("size"), model.CategorySize)
		if err != nil {
			return err
		}
		sel.SelectSize(sizeID)
		sel.SetManualBasePrice(c.Int64("manual-price"))
		if sel.PackagingID, err = resolve(c.String("packaging"), model.CategoryPackaging); err != nil {
			return err
		}
		for _, ref := range c.StringSlice("accessory") {
			id, err := resolve(ref, model.CategoryAccessory)
			if err != nil {
				return err
			}
			sel.AccessoryIDs = append(sel.AccessoryIDs, id)
		}

		choice := model.PaymentChoice(c.String("choice"))
		if choice != model.PaymentFull && choice != model.PaymentPartial {
			return fmt.Errorf("choice must be %q or %q", model.PaymentFull, model.PaymentPartial)
		}

		snapshot, err := s.catalog.Snapshot(c.Context)
		if err != nil {
			return err
		}
		cfg, err := s.settings.Get(c.Context)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(pricing.NewQuote(snapshot, sel, cfg, choice))
	}
}
