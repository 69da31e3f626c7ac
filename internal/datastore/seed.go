package datastore

import "time"

// Demo dataset used to seed empty stores. Mirrors the sample accounts,
// tickets and articles the assistant is demonstrated against.

func sampleUsers() []User {
	return []User{
		{ID: 1, Username: "johndoe", Email: "john.doe@example.com", Name: "John Doe"},
		{ID: 2, Username: "janedoe", Email: "jane.doe@example.com", Name: "Jane Doe"},
	}
}

func sampleTickets() []Ticket {
	now := time.Now().UTC()
	closed := now.Add(-24 * time.Hour)
	return []Ticket{
		{
			ID:          1,
			UserID:      1,
			Title:       "Can't connect to WiFi",
			Description: "My laptop won't connect to the office WiFi",
			Status:      "open",
			Priority:    "medium",
			CreatedAt:   now.Add(-72 * time.Hour),
			UpdatedAt:   now.Add(-72 * time.Hour),
		},
		{
			ID:          2,
			UserID:      1,
			Title:       "Email not syncing",
			Description: "My outlook is not syncing with the server",
			Status:      "closed",
			Priority:    "high",
			CreatedAt:   now.Add(-48 * time.Hour),
			UpdatedAt:   closed,
			ClosedAt:    &closed,
		},
		{
			ID:          3,
			UserID:      2,
			Title:       "Printer not working",
			Description: "Can't print to the network printer",
			Status:      "in progress",
			Priority:    "low",
			CreatedAt:   now.Add(-12 * time.Hour),
			UpdatedAt:   now.Add(-12 * time.Hour),
		},
	}
}

func sampleArticles() []KnowledgeArticle {
	return []KnowledgeArticle{
		{
			ID:       1,
			Title:    "VPN Setup Guide",
			Content:  "To set up VPN, download the company VPN client and log in using your SSO credentials. If you have issues connecting, ensure your internet connection is stable and try restarting the client.",
			Category: "remote_work",
		},
		{
			ID:       2,
			Title:    "Remote Work Policy",
			Content:  "Employees are allowed to work remotely up to 3 days per week. All remote work must be approved by your manager. Ensure you have a stable internet connection and proper home office setup.",
			Category: "policy",
		},
		{
			ID:       3,
			Title:    "Password Reset Procedure",
			Content:  "To reset your password, visit the company portal at portal.company.com and click on 'Forgot Password'. Follow the instructions sent to your recovery email.",
			Category: "account",
		},
	}
}

// SampleArticles returns a copy of the demo knowledge base
func SampleArticles() []KnowledgeArticle {
	return sampleArticles()
}
