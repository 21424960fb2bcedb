package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Bars lists venues, optionally filtered by a search query.
func (a *App) Bars(ctx context.Context, query string) error {
	bars, err := a.discovery.Bars(ctx, query)
	if err != nil {
		a.printErr(err)
		return err
	}

	if len(bars) == 0 {
		fmt.Fprintln(a.out, "No bars found")
		return nil
	}
	for _, b := range bars {
		fmt.Fprintf(a.out, "%s  %-30s %.1f★ (%d)  %s\n", b.ID, b.Name, b.Rating, b.ReviewCount, b.Address)
	}
	return nil
}

// Bar shows a single venue in detail.
func (a *App) Bar(ctx context.Context, id string) error {
	bar, err := a.discovery.Bar(ctx, id)
	if err != nil {
		a.printErr(err)
		return err
	}

	fmt.Fprintf(a.out, "%s\n", bar.Name)
	if bar.Description != "" {
		fmt.Fprintln(a.out, bar.Description)
	}
	fmt.Fprintf(a.out, "Address: %s\n", bar.Address)
	fmt.Fprintf(a.out, "Rating:  %.1f (%d reviews)\n", bar.Rating, bar.ReviewCount)
	if len(bar.Tags) > 0 {
		fmt.Fprintf(a.out, "Tags:    %s\n", strings.Join(bar.Tags, ", "))
	}
	return nil
}

// Menu lists a venue's menu items.
func (a *App) Menu(ctx context.Context, barID string) error {
	items, err := a.discovery.MenuItems(ctx, barID)
	if err != nil {
		a.printErr(err)
		return err
	}

	if len(items) == 0 {
		fmt.Fprintln(a.out, "No menu published")
		return nil
	}
	for _, item := range items {
		marker := " "
		if !item.Available {
			marker = "✗"
		}
		fmt.Fprintf(a.out, "%s %-30s %6.2f  %s\n", marker, item.Name, item.Price, item.Category)
	}
	return nil
}

// Events lists upcoming events across venues.
func (a *App) Events(ctx context.Context) error {
	events, err := a.discovery.Events(ctx)
	if err != nil {
		a.printErr(err)
		return err
	}

	if len(events) == 0 {
		fmt.Fprintln(a.out, "No upcoming events")
		return nil
	}
	for _, e := range events {
		fmt.Fprintf(a.out, "%s  %-30s %s  %s\n", e.ID, e.Title, e.BarName, e.StartsAt.Format("Mon 02 Jan 15:04"))
	}
	return nil
}

// Review prompts for a rating and comment and posts a review for barID.
func (a *App) Review(ctx context.Context, barID string) error {
	ratingText, err := getSimpleText(a.reader, "Rating (1-5)", a.out)
	if err != nil {
		return err
	}
	rating, err := strconv.Atoi(ratingText)
	if err != nil {
		fmt.Fprintln(a.out, "Rating must be a number between 1 and 5")
		return err
	}

	comment, err := getSimpleText(a.reader, "Comment (optional)", a.out)
	if err != nil {
		return err
	}

	if _, err := a.discovery.PostReview(ctx, barID, rating, comment); err != nil {
		a.printErr(err)
		return err
	}

	fmt.Fprintln(a.out, "Review posted")
	return nil
}

// Favorites lists the signed-in user's favorite venues.
func (a *App) Favorites(ctx context.Context) error {
	bars, err := a.discovery.Favorites(ctx)
	if err != nil {
		a.printErr(err)
		return err
	}

	if len(bars) == 0 {
		fmt.Fprintln(a.out, "No favorites yet")
		return nil
	}
	for _, b := range bars {
		fmt.Fprintf(a.out, "%s  %s\n", b.ID, b.Name)
	}
	return nil
}

// AddFavorite marks a venue as favorite.
func (a *App) AddFavorite(ctx context.Context, barID string) error {
	if err := a.discovery.AddFavorite(ctx, barID); err != nil {
		a.printErr(err)
		return err
	}
	fmt.Fprintln(a.out, "Added to favorites")
	return nil
}

// RemoveFavorite unmarks a favorite venue.
func (a *App) RemoveFavorite(ctx context.Context, barID string) error {
	if err := a.discovery.RemoveFavorite(ctx, barID); err != nil {
		a.printErr(err)
		return err
	}
	fmt.Fprintln(a.out, "Removed from favorites")
	return nil
}
