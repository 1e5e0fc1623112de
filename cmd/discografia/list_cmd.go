package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/five82/discografia/internal/app"
	"github.com/five82/discografia/internal/catalog"
	"github.com/five82/discografia/internal/crud"
)

func newArtistsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "artists [id]",
		Short: "List artists, or show one by id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(flags, func(env *app.Env) error {
				var artists []catalog.Artist
				if len(args) == 1 {
					artist, err := env.Services.Artists.Get(cmd.Context(), args[0])
					if err != nil {
						return fmt.Errorf("get artist %s: %w", args[0], err)
					}
					artists = append(artists, artist)
				} else {
					var err error
					if artists, err = env.Services.Artists.List(cmd.Context()); err != nil {
						return fmt.Errorf("list artists: %w", err)
					}
				}
				// Types need a session; without one every type shows as not found.
				types, err := env.Services.Types.List(cmd.Context())
				if err != nil {
					env.Log("cli").WithError(err).Warn("list artist types")
				}
				writeArtists(cmd.OutOrStdout(), artists, types)
				return nil
			})
		},
	}
}

func newTypesCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List artist types with their artist counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(flags, func(env *app.Env) error {
				if err := env.Session.Check(); err != nil {
					return fmt.Errorf("%w: run discografia login first", err)
				}
				types, err := env.Services.Types.List(cmd.Context())
				if err != nil {
					return fmt.Errorf("list artist types: %w", err)
				}
				artists, err := env.Services.Artists.List(cmd.Context())
				if err != nil {
					env.Log("cli").WithError(err).Warn("list artists")
				}
				writeTypes(cmd.OutOrStdout(), types, artists)
				return nil
			})
		},
	}
}

func writeArtists(out io.Writer, artists []catalog.Artist, types []catalog.ArtistType) {
	byID := catalog.TypesByID(types)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOMBRE\tAPELLIDO\tTIPO\tGÉNERO\tNACIMIENTO\tESTADO")
	for _, a := range artists {
		birth := a.DateBirth
		if t, ok := a.BirthDate(); ok {
			birth = t.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Name, a.Lastname, catalog.TypeName(a, byID), a.Gender.Label(), birth, status(a.Active))
	}
	_ = w.Flush()
}

func writeTypes(out io.Writer, types []catalog.ArtistType, artists []catalog.Artist) {
	counts := crud.CountBy(artists, func(a catalog.Artist) string { return a.ArtistTypeID.String() })
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDESCRIPCIÓN\tARTISTAS\tESTADO")
	for _, t := range types {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Description, catalog.ArtistCountLabel(counts[t.ID.String()]), status(t.Active))
	}
	_ = w.Flush()
}

func status(active bool) string {
	if active {
		return "Activo"
	}
	return "Inactivo"
}
