package websearch

import "strings"

// CannedResults returns built-in troubleshooting snippets matched by simple
// keywords. Used when no search API key is configured, so the
// troubleshooting path keeps working offline.
func CannedResults(query string) []Result {
	q := strings.ToLower(query)

	switch {
	case strings.Contains(q, "wifi") || strings.Contains(q, "network"):
		return []Result{
			{
				Title:   "Troubleshooting WiFi Connection Issues",
				Content: "Common solutions for WiFi problems include: 1) Restart your router, 2) Check for network adapter issues, 3) Reset network settings, 4) Update router firmware, 5) Check for interference from other devices.",
				URL:     "https://support.microsoft.com/en-us/windows/fix-wi-fi-connection-issues-in-windows-9424a1f7-6a3b-65a6-4d78-7f07eee84f2c",
			},
			{
				Title:   "Reset Network Adapter in Windows",
				Content: "To reset your network adapter, open Command Prompt as administrator and run the following commands: 'netsh winsock reset' and 'netsh int ip reset'. Then restart your computer.",
				URL:     "https://www.digitaltrends.com/computing/how-to-reset-a-router/",
			},
		}
	case strings.Contains(q, "slow") && (strings.Contains(q, "computer") || strings.Contains(q, "laptop") || strings.Contains(q, "pc")):
		return []Result{
			{
				Title:   "How to Speed Up a Slow Computer",
				Content: "To speed up a slow computer: 1) Close unnecessary background programs, 2) Remove unused applications, 3) Run disk cleanup, 4) Defragment your drive, 5) Add more RAM, 6) Check for malware, 7) Update drivers and OS.",
				URL:     "https://www.pcmag.com/how-to/how-to-speed-up-your-laptop",
			},
			{
				Title:   "10 Quick Fixes for a Slow PC",
				Content: "Quick fixes include: checking for Windows updates, disabling startup programs, cleaning up temporary files, and using the Windows Performance Troubleshooter.",
				URL:     "https://support.microsoft.com/en-us/windows/tips-to-improve-pc-performance-in-windows-b3b3ef5b-5953-fb6a-2528-4bbed82fba96",
			},
		}
	case strings.Contains(q, "printer"):
		return []Result{
			{
				Title:   "How to Fix Common Printer Problems",
				Content: "Common printer solutions: 1) Check connection cables, 2) Restart the printer, 3) Clear the print queue, 4) Reinstall or update printer drivers, 5) Check for paper jams, 6) Verify ink/toner levels.",
				URL:     "https://www.hp.com/us-en/shop/tech-takes/how-to-fix-common-printer-problems",
			},
			{
				Title:   "Printer Troubleshooting Guide",
				Content: "For network printers, ensure the printer is on the same network as your computer. Try adding the printer again using its IP address. For Windows, use the built-in printer troubleshooter in Settings > Devices > Printers & scanners.",
				URL:     "https://support.microsoft.com/en-us/windows/fix-printer-problems-in-windows-bf5d38dc-ec37-570a-91cf-ee2bbb86fcee",
			},
		}
	case strings.Contains(q, "email") || strings.Contains(q, "outlook"):
		return []Result{
			{
				Title:   "Fix Outlook Sync Issues",
				Content: "To fix Outlook syncing problems: 1) Check your internet connection, 2) Update Outlook to the latest version, 3) Repair your Outlook data files, 4) Create a new Outlook profile, 5) Clear the Outlook cache.",
				URL:     "https://support.microsoft.com/en-us/office/fix-outlook-connection-problems-in-office-365-and-exchange-online-a15af714-928c-4e99-a65d-69a4295c0735",
			},
			{
				Title:   "Troubleshooting Email Connection Problems",
				Content: "Common email issues can be fixed by checking server settings, verifying your password hasn't expired, and ensuring your account hasn't been locked for security reasons.",
				URL:     "https://support.microsoft.com/en-us/office/resolve-connection-problems-in-outlook-for-windows-86280aa7-1f02-49bf-9b21-6e16ae86fba6",
			},
		}
	default:
		return []Result{
			{
				Title:   "IT Troubleshooting: The Essential Guide",
				Content: "The basic troubleshooting methodology includes these steps: 1) Identify the problem, 2) Establish a theory of probable cause, 3) Test the theory, 4) Establish a plan of action, 5) Implement the solution, 6) Verify functionality, 7) Document the solution.",
				URL:     "https://www.comptia.org/blog/a-guide-to-basic-computer-troubleshooting",
			},
			{
				Title:   "Common Computer Problems and Solutions",
				Content: "Most technical issues fall into categories: hardware failures, software conflicts, network connectivity, driver issues, malware infections, and user errors. Start by determining which category your problem belongs to.",
				URL:     "https://www.pcmag.com/how-to/pc-troubleshooting-101-a-guide-for-beginners",
			},
		}
	}
}
