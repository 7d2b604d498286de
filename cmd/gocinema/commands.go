package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/amaumene/gocinema/internal/models"
	"github.com/spf13/cobra"
)

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie id %q", arg)
	}
	return id, nil
}

func printMovies(w io.Writer, movies []models.MovieRecord) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tYEAR\tRATING")
	for _, m := range movies {
		year := "-"
		if m.ReleaseYear > 0 {
			year = strconv.Itoa(m.ReleaseYear)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f\n", m.ID, m.Title, year, m.Rating)
	}
	tw.Flush()
}

func newSearchCmd() *cobra.Command {
	var pages int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search movies by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := loadApp()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			if err := app.Catalog.Search(ctx, strings.Join(args, " "), 1); err != nil {
				return err
			}
			for i := 1; i < pages; i++ {
				if err := app.Catalog.LoadMoreSearchResults(ctx); err != nil {
					return err
				}
			}

			results := app.Catalog.SearchResults()
			printMovies(cmd.OutOrStdout(), results.Movies)
			if results.Cursor.HasMore {
				fmt.Fprintf(cmd.OutOrStdout(), "\nmore results after page %d\n", results.Cursor.Page)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&pages, "pages", 1, "number of result pages to load")

	return cmd
}

func newDetailsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "details <id>",
		Short: "Show a movie with its credits, trailer and your reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			app, cleanup, err := loadApp()
			if err != nil {
				return err
			}
			defer cleanup()

			m, err := app.Catalog.GetDetails(cmd.Context(), id)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s (%d)\n", m.Title, m.ReleaseYear)
			fmt.Fprintf(w, "Rating:    %.1f (%d votes)\n", m.Rating, m.VoteCount)
			fmt.Fprintf(w, "Genres:    %s\n", strings.Join(m.Genres, ", "))
			fmt.Fprintf(w, "Duration:  %s\n", m.Duration)
			fmt.Fprintf(w, "Director:  %s\n", m.Director)
			fmt.Fprintf(w, "Cast:      %s\n", strings.Join(m.Cast, ", "))
			if m.TrailerURL != "" {
				fmt.Fprintf(w, "Trailer:   %s\n", m.TrailerURL)
			}
			fmt.Fprintf(w, "Favorite:  %t\n", app.Library.IsFavorite(id))
			fmt.Fprintf(w, "Watchlist: %t\n", app.Library.IsWatchlisted(id))
			fmt.Fprintf(w, "\n%s\n", m.Description)

			if reviews := app.Library.Reviews(id); len(reviews) > 0 {
				fmt.Fprintf(w, "\nYour reviews (average %.1f):\n", app.Library.AverageRating(id))
				for _, r := range reviews {
					fmt.Fprintf(w, "  %d/5  %s  %s\n", r.Rating, r.Date, r.Comment)
				}
			}
			return nil
		},
	}
}

func newSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest",
		Short: "Print title suggestions for each line read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := loadApp()
			if err != nil {
				return err
			}
			defer cleanup()

			w := cmd.OutOrStdout()
			delivered := make(chan string, 16)
			app.Suggester.OnSuggestions(func(query string, suggestions []models.Suggestion) {
				for _, s := range suggestions {
					if s.Year > 0 {
						fmt.Fprintf(w, "%s -> %s (%d)\n", query, s.Title, s.Year)
					} else {
						fmt.Fprintf(w, "%s -> %s\n", query, s.Title)
					}
				}
				select {
				case delivered <- strings.TrimSpace(query):
				default:
				}
			})

			var last string
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				last = scanner.Text()
				app.Suggester.Update(last)
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			return waitForSuggestions(cmd.Context(), delivered, strings.TrimSpace(last),
				app.Config.SuggestionDebounce+app.Config.TMDBTimeout)
		},
	}
}

// waitForSuggestions blocks until the suggestions of the final query arrive
func waitForSuggestions(ctx context.Context, delivered <-chan string, last string, timeout time.Duration) error {
	if len([]rune(last)) <= 1 {
		return nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case query := <-delivered:
			if query == last {
				return nil
			}
		case <-timer.C:
			return fmt.Errorf("no suggestions for %q within %s", last, timeout)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func newToggleCmd(collection, short string) *cobra.Command {
	return &cobra.Command{
		Use:   collection + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			app, cleanup, err := loadApp()
			if err != nil {
				return err
			}
			defer cleanup()

			var member bool
			if collection == "favorite" {
				member = app.Library.ToggleFavorite(id)
			} else {
				member = app.Library.ToggleWatchlist(id)
			}

			action := "removed from"
			if member {
				action = "added to"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "movie %d %s %s\n", id, action, collection)
			return nil
		},
	}
}

func newReviewCmd() *cobra.Command {
	var (
		rating  int
		comment string
	)

	cmd := &cobra.Command{
		Use:   "review <id>",
		Short: "Rate a movie from 1 to 5",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			app, cleanup, err := loadApp()
			if err != nil {
				return err
			}
			defer cleanup()

			if _, err := app.Library.AddReview(id, models.ReviewInput{Rating: rating, Comment: comment}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "review saved, average rating %.1f over %d reviews\n",
				app.Library.AverageRating(id), len(app.Library.Reviews(id)))
			return nil
		},
	}
	cmd.Flags().IntVar(&rating, "rating", 0, "star rating from 1 to 5")
	cmd.Flags().StringVar(&comment, "comment", "", "review text")
	_ = cmd.MarkFlagRequired("rating")

	return cmd
}

func newLibraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Inspect or clear the local library",
	}

	list := func(name string, resolve func(app *App, ctx context.Context) []models.MovieRecord) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: "List the movies in the " + name,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				app, cleanup, err := loadApp()
				if err != nil {
					return err
				}
				defer cleanup()

				printMovies(cmd.OutOrStdout(), resolve(app, cmd.Context()))
				return nil
			},
		}
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete favorites, watchlist and reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := loadApp()
			if err != nil {
				return err
			}
			defer cleanup()

			for _, key := range []string{models.KeyFavorites, models.KeyWatchlist, models.KeyReviews} {
				if err := app.DB.RemoveItem(key); err != nil {
					return fmt.Errorf("failed to clear %s: %w", key, err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "library cleared")
			return nil
		},
	}

	cmd.AddCommand(
		list("favorites", func(app *App, ctx context.Context) []models.MovieRecord {
			return app.Library.ResolveFavorites(ctx)
		}),
		list("watchlist", func(app *App, ctx context.Context) []models.MovieRecord {
			return app.Library.ResolveWatchlist(ctx)
		}),
		clearCmd,
	)

	return cmd
}
