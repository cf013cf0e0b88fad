package client

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/joshdurbin/minilink/internal/domain"
)

// Commands provides command-line operations for the client
type Commands struct {
	client *Client
	out    io.Writer
}

// NewCommands creates a new Commands instance printing to out
func NewCommands(client *Client, out io.Writer) *Commands {
	return &Commands{
		client: client,
		out:    out,
	}
}

// Create creates a short link and displays the result
func (c *Commands) Create(ctx context.Context, req domain.CreateLinkRequest) error {
	link, err := c.client.CreateLink(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Short link created:\n")
	c.printLink(link)
	return nil
}

// Get retrieves and displays a link
func (c *Commands) Get(ctx context.Context, shortCode string) error {
	link, err := c.client.GetLink(ctx, shortCode)
	if err != nil {
		if IsNotFound(err) {
			fmt.Fprintf(c.out, "Short code '%s' not found\n", shortCode)
			return nil
		}
		return err
	}

	fmt.Fprintf(c.out, "Link Information:\n")
	c.printLink(link)
	return nil
}

// Update applies a partial update and displays the result
func (c *Commands) Update(ctx context.Context, shortCode string, req domain.UpdateLinkRequest) error {
	link, err := c.client.UpdateLink(ctx, shortCode, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Link updated:\n")
	c.printLink(link)
	return nil
}

// Delete removes a link
func (c *Commands) Delete(ctx context.Context, shortCode string) error {
	err := c.client.DeleteLink(ctx, shortCode)
	if err != nil {
		if IsNotFound(err) {
			fmt.Fprintf(c.out, "Short code '%s' not found\n", shortCode)
			return nil
		}
		return err
	}

	fmt.Fprintf(c.out, "Link '%s' deleted successfully\n", shortCode)
	return nil
}

// Stats displays the analytics of a link
func (c *Commands) Stats(ctx context.Context, shortCode string) error {
	stats, err := c.client.Stats(ctx, shortCode)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Clicks: %d\n", stats.ClickCount)
	fmt.Fprintf(c.out, "Last Accessed: %s\n", formatTime(stats.LastAccessed, time.RFC3339, "Never"))
	return nil
}

// List displays links in a table format
func (c *Commands) List(ctx context.Context, sort string) error {
	links, err := c.client.ListLinks(ctx, sort)
	if err != nil {
		return err
	}

	if len(links) == 0 {
		fmt.Fprintln(c.out, "No links found")
		return nil
	}

	fmt.Fprintf(c.out, "%-15s %-50s %-20s %-20s %s\n", "Short Code", "Original URL", "Created At", "Last Accessed", "Clicks")
	fmt.Fprintln(c.out, strings.Repeat("-", 120))

	for _, link := range links {
		originalURL := link.OriginalURL
		if len(originalURL) > 50 {
			originalURL = originalURL[:47] + "..."
		}

		fmt.Fprintf(c.out, "%-15s %-50s %-20s %-20s %d\n",
			link.ShortCode,
			originalURL,
			link.CreatedAt.Format("2006-01-02 15:04:05"),
			formatTime(link.LastAccessed, "2006-01-02 15:04:05", "Never"),
			link.ClickCount,
		)
	}

	return nil
}

// Signup registers an account and prints the session token
func (c *Commands) Signup(ctx context.Context, creds domain.CredentialsRequest) error {
	session, err := c.client.Signup(ctx, creds)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Account '%s' created\n", session.User.Username)
	c.printSession(session)
	return nil
}

// Login starts a session and prints the token
func (c *Commands) Login(ctx context.Context, creds domain.CredentialsRequest) error {
	session, err := c.client.Login(ctx, creds)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Logged in as '%s'\n", session.User.Username)
	c.printSession(session)
	return nil
}

func (c *Commands) printSession(session *domain.SessionResponse) {
	fmt.Fprintf(c.out, "Token: %s\n", session.Token)
	fmt.Fprintf(c.out, "Expires At: %s\n", session.ExpiresAt.Format(time.RFC3339))
	fmt.Fprintf(c.out, "Pass it with --token or MINILINK_TOKEN for owned links\n")
}

func (c *Commands) printLink(link *domain.Link) {
	fmt.Fprintf(c.out, "Short Code: %s\n", link.ShortCode)
	if link.ShortURL != "" {
		fmt.Fprintf(c.out, "Short URL: %s\n", link.ShortURL)
	}
	fmt.Fprintf(c.out, "Original URL: %s\n", link.OriginalURL)
	if link.Label != nil {
		fmt.Fprintf(c.out, "Label: %s\n", *link.Label)
	}
	fmt.Fprintf(c.out, "Created At: %s\n", link.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(c.out, "Expires At: %s\n", formatTime(link.ExpiresAt, time.RFC3339, "Never"))
	fmt.Fprintf(c.out, "Last Accessed: %s\n", formatTime(link.LastAccessed, time.RFC3339, "Never"))
	fmt.Fprintf(c.out, "Clicks: %d\n", link.ClickCount)
}

func formatTime(t *time.Time, layout, fallback string) string {
	if t == nil {
		return fallback
	}
	return t.Format(layout)
}
