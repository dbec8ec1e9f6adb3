package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/magis/internal/catalog"
	"github.com/dotcommander/magis/internal/output"
	"github.com/dotcommander/magis/internal/types"
)

var (
	catalogKind   string
	catalogRoot   string
	catalogDryRun bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Import, validate and browse the catalog",
	Long: `The catalog holds sins, good works, person types, activities and
condicionantes. Catalog files are YAML, JSON or CSV; the kind is taken from
the file name (sins.yaml, good-works.csv, condicionantes/*.yaml) or --kind.
A YAML file keyed by collection name may hold several kinds at once.`,
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <pattern>...",
	Short: "Import catalog files",
	Example: `  magis catalog import sins.yaml good-works.csv
  magis catalog import 'catalog/**/*.{yaml,csv}'
  magis catalog import --kind sins export.csv`,
	Args: cobra.MinimumNArgs(1),
	Run:  run(withApp(runCatalogImport)),
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <pattern>...",
	Short: "Validate catalog files without saving",
	Args:  cobra.MinimumNArgs(1),
	Run: run(withApp(func(a *app, args []string) error {
		catalogDryRun = true
		return runCatalogImport(a, args)
	})),
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog items",
	Args:  cobra.NoArgs,
	Run:   run(withApp(runCatalogList)),
}

var catalogDeleteCmd = &cobra.Command{
	Use:   "delete <kind> <id>",
	Short: "Delete a catalog item",
	Long: `Deletes a catalog item. Recorded events keep their reference; metrics skip
events whose item no longer exists and report how many were skipped.`,
	Args: cobra.ExactArgs(2),
	Run:  run(withApp(runCatalogDelete)),
}

func init() {
	for _, c := range []*cobra.Command{catalogImportCmd, catalogValidateCmd} {
		c.Flags().StringVar(&catalogKind, "kind", "", "Treat every file as this kind")
		c.Flags().StringVar(&catalogRoot, "root", ".", "Directory patterns are relative to")
	}
	catalogImportCmd.Flags().BoolVar(&catalogDryRun, "dry-run", false, "Validate without saving")
	catalogListCmd.Flags().StringVar(&catalogKind, "kind", "", "Only list this kind")

	catalogCmd.AddCommand(catalogImportCmd, catalogValidateCmd, catalogListCmd, catalogDeleteCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogImport(a *app, args []string) error {
	opts := catalog.Options{DryRun: catalogDryRun}
	if catalogKind != "" {
		k, err := catalog.ParseKind(catalogKind)
		if err != nil {
			return err
		}
		opts.Kind = k
	}

	files, err := catalog.Discover(catalogRoot, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no catalog files match %s", strings.Join(args, " "))
	}

	im, err := catalog.NewImporter(a.store, a.log)
	if err != nil {
		return err
	}
	res, err := im.Import(files, opts)
	if err != nil {
		return err
	}
	if err := a.out.Render(func(f output.Formatter) error { return f.Import(res) }); err != nil {
		return err
	}
	if len(res.Errors) > 0 {
		exitFunc(1)
	}
	return nil
}

// catalogItems lists the items of kind, or of every kind when kind is
// KindUnknown.
func (a *app) catalogItems(kind catalog.Kind) ([]output.CatalogItem, error) {
	var items []output.CatalogItem
	want := func(k catalog.Kind) bool { return kind == catalog.KindUnknown || kind == k }

	if want(catalog.KindSin) {
		sins, err := a.store.Sins()
		if err != nil {
			return nil, err
		}
		for _, s := range sins {
			items = append(items, output.CatalogItem{
				Kind:     catalog.KindSin,
				ID:       s.ID,
				Name:     s.Name,
				Detail:   joinValues(s.Terms) + " / " + joinValues(s.Gravities),
				Disabled: s.Disabled,
			})
		}
	}
	if want(catalog.KindBuenaObra) {
		obras, err := a.store.BuenasObras()
		if err != nil {
			return nil, err
		}
		for _, b := range obras {
			items = append(items, output.CatalogItem{
				Kind:     catalog.KindBuenaObra,
				ID:       b.ID,
				Name:     b.Name,
				Detail:   joinValues(b.Terms),
				Disabled: b.Disabled,
			})
		}
	}
	if want(catalog.KindPersonType) {
		pts, err := a.store.PersonTypes()
		if err != nil {
			return nil, err
		}
		for _, p := range pts {
			items = append(items, output.CatalogItem{Kind: catalog.KindPersonType, ID: p.ID, Name: p.Name})
		}
	}
	if want(catalog.KindActivity) {
		acts, err := a.store.Activities()
		if err != nil {
			return nil, err
		}
		for _, act := range acts {
			items = append(items, output.CatalogItem{Kind: catalog.KindActivity, ID: act.ID, Name: act.Name})
		}
	}
	if want(catalog.KindCondicionante) {
		conds, err := a.store.Condicionantes()
		if err != nil {
			return nil, err
		}
		for _, c := range conds {
			items = append(items, output.CatalogItem{
				Kind:   catalog.KindCondicionante,
				ID:     c.ID,
				Name:   c.Name,
				Detail: string(c.AppliesTo),
			})
		}
	}
	return items, nil
}

func joinValues[T ~string](vs []T) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = string(v)
	}
	return strings.Join(parts, ",")
}

func runCatalogList(a *app, _ []string) error {
	kind := catalog.KindUnknown
	if catalogKind != "" {
		k, err := catalog.ParseKind(catalogKind)
		if err != nil {
			return err
		}
		kind = k
	}
	items, err := a.catalogItems(kind)
	if err != nil {
		return err
	}
	return a.out.Render(func(f output.Formatter) error { return f.Catalog(items) })
}

func runCatalogDelete(a *app, args []string) error {
	kind, err := catalog.ParseKind(args[0])
	if err != nil {
		return err
	}
	id := args[1]
	switch kind {
	case catalog.KindSin:
		err = a.store.DeleteSin(id)
	case catalog.KindBuenaObra:
		err = a.store.DeleteBuenaObra(id)
	case catalog.KindPersonType:
		err = a.store.DeletePersonType(id)
	case catalog.KindActivity:
		err = a.store.DeleteActivity(id)
	case catalog.KindCondicionante:
		err = a.store.DeleteCondicionante(id)
		if err == nil {
			err = a.dropActiveCondicionante(id)
		}
	default:
		err = fmt.Errorf("%w: kind %q", types.ErrInvalid, args[0])
	}
	if err != nil {
		return err
	}
	if !a.cfg.Quiet {
		fmt.Fprintf(stdout, "deleted %s %s\n", kind, id)
	}
	return nil
}

// dropActiveCondicionante removes id from the active profile.
func (a *app) dropActiveCondicionante(id string) error {
	prefs, err := a.store.Preferences()
	if err != nil {
		return err
	}
	kept := prefs.ActiveCondicionanteIDs[:0]
	for _, v := range prefs.ActiveCondicionanteIDs {
		if v != id {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(prefs.ActiveCondicionanteIDs) {
		return nil
	}
	prefs.ActiveCondicionanteIDs = kept
	return a.store.SavePreferences(prefs)
}
