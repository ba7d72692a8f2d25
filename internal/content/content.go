// Package content holds the hard-coded portfolio tables. Callers treat every
// slice as read-only.
package content

import "github.com/Zachkp/folio/internal/scroll"

type Profile struct {
	Name       string
	Initials   string
	Headline   string
	Tagline    string
	About      string
	ImagePath  string
	ResumePath string
	Email      string
	Socials    []Social
}

type Social struct {
	Name string
	URL  string
}

type Skill struct {
	Name  string
	Level int
}

type Project struct {
	Title       string
	Description string
	Tags        []string
	URL         string
}

type BlogPost struct {
	Slug    string
	Title   string
	Date    string
	Excerpt string // markdown
}

type Testimonial struct {
	Quote  string
	Author string
	Role   string
}

type Experience struct {
	Title     string
	Company   string
	StartDate string
	EndDate   string
	LogoPath  string
	Bullets   []string
}

// NavSections are the page anchors in document order.
var NavSections = []scroll.Section{
	{ID: "hero", Label: "Home"},
	{ID: "about", Label: "About"},
	{ID: "projects", Label: "Projects"},
	{ID: "blog", Label: "Blog"},
	{ID: "experience", Label: "Experience"},
	{ID: "contact", Label: "Contact"},
}

// Phrases feed the hero typewriter.
var Phrases = []string{"a Developer", "an Engineer", "a Freelancer"}

var Me = Profile{
	Name:     "Zach Kordas-Potter",
	Initials: "ZK",
	Headline: "Software Developer",
	Tagline:  "Building software that is both useful and fun.",
	About: `I love building software that's both useful and fun, and I'm always curious about how things work behind the scenes.
Most of my projects start with a simple idea and turn into a chance to learn something new, whether it's exploring a
different language, experimenting with tools, or solving tricky problems.
When I'm not coding, you'll usually find me training Muay Thai, shooting pool with friends,
or chasing down a new challenge outside the screen.`,
	ImagePath:  "/images/profile.jpg",
	ResumePath: "/static/resume.pdf",
	Email:      "zachkordaspotter@gmail.com",
	Socials: []Social{
		{Name: "github", URL: "https://github.com/Zachkp"},
		{Name: "linkedin", URL: "https://linkedin.com"},
		{Name: "twitter", URL: "https://twitter.com"},
	},
}

var Skills = []Skill{
	{Name: "Go", Level: 90},
	{Name: "SQL", Level: 80},
	{Name: "HTMX / Alpine.js", Level: 75},
	{Name: "Python", Level: 70},
	{Name: "Tailwind CSS", Level: 70},
	{Name: "Machine Learning", Level: 55},
}

var Projects = []Project{
	{
		Title: "Terminal Mail",
		Description: `A terminal-based email client built in Go with fuzzyfinder capabilities
using the Charmbracelet TUI framework and go-imap.`,
		Tags: []string{"Go", "Bubble Tea", "IMAP"},
	},
	{
		Title: "TUI Music",
		Description: `A terminal-based music streaming application built in Go with an elegant TUI
interface, leveraging yt-dlp and mpv for seamless YouTube Music playback directly from the command line.`,
		Tags: []string{"Go", "mpv", "yt-dlp"},
	},
	{
		Title: "Game Recommender",
		Description: `A machine learning-powered web application that uses TF-IDF vectorization and cosine
similarity to recommend games based on content analysis, featuring interactive data visualizations and
real-time filtering by user reviews and ratings.`,
		Tags: []string{"Python", "scikit-learn"},
	},
	{
		Title: "Portfolio",
		Description: `A responsive portfolio website built with Go and Gin, with a live websocket session
driving the scroll, reveal and theme behaviour, and a terminal rendition of the same page.`,
		Tags: []string{"Go", "Gin", "WebSocket"},
		URL:  "https://github.com/Zachkp/folio",
	},
}

var BlogPosts = []BlogPost{
	{
		Slug:    "tui-first",
		Title:   "Why I build the TUI first",
		Date:    "2025-03-02",
		Excerpt: "A terminal interface forces you to decide what **actually matters** on screen. Everything else is `padding`.",
	},
	{
		Slug:    "sqlite-everywhere",
		Title:   "SQLite for side projects",
		Date:    "2025-01-18",
		Excerpt: "One file, no server, and a pure-Go driver. For a personal site that is *all* the database you need.",
	},
	{
		Slug:    "muay-thai-debugging",
		Title:   "What Muay Thai taught me about debugging",
		Date:    "2024-11-07",
		Excerpt: "Stay relaxed, keep your guard up, and never chase a bug you have not *seen*.",
	},
}

var Testimonials = []Testimonial{
	{Quote: "Zach turned a vague idea into a working tool in a weekend.", Author: "Jordan Lee", Role: "Product Manager"},
	{Quote: "Reliable, curious and always the first to volunteer for the hard ticket.", Author: "Sam Rivera", Role: "Team Lead"},
	{Quote: "Kept three venues running on the same night without missing a beat.", Author: "Jason M.", Role: "Owner, Jasons Catered Events"},
}

var Work = []Experience{
	{
		Title:     "Presentation Expert",
		Company:   "Target",
		StartDate: "Aug 2023",
		EndDate:   "Present",
		LogoPath:  "/images/TargetLogo.jpg",
		Bullets: []string{
			"Executed over 300 merchandising transitions on tight timelines by organizing team workflows and adapting quickly to changing priorities",
			"Boosted operational efficiency by managing backroom inventory processes and streamlining communication between floor and logistics teams",
			"Enhanced pricing and signage accuracy across departments by standardizing daily checks and collaborating cross-functionally",
		},
	},
	{
		Title:     "Manager",
		Company:   "Jasons Catered Events",
		StartDate: "Aug 2016",
		EndDate:   "Present",
		LogoPath:  "/images/jasonsCateringLogo.png",
		Bullets: []string{
			"Improved client satisfaction by coordinating customized menus and ensuring all dietary requirements were accurately met",
			"Supported event technology by troubleshooting AV equipment and managing digital order tracking systems, reducing technical delays and improving communication",
			"Maintained supply inventory and coordinated timely delivery between venues, optimizing resource allocation and minimizing downtime.",
		},
	},
}

var Education = []Experience{
	{
		Title:     "Bachelor of Computer Science",
		Company:   "Western Governors University",
		StartDate: "Sept 2019",
		EndDate:   "May 2023",
		LogoPath:  "/images/WGU-logo.png",
		Bullets: []string{
			"Graduated Magna Cum Laude with 3.8 GPA",
			"Relevant coursework: Data Structures, Algorithms, Web Development",
			"Senior project: Machine Learning recommendation system",
		},
	},
	{
		Title:     "Project Management",
		Company:   "Comptia",
		StartDate: "July 2022",
		EndDate:   "Present",
		LogoPath:  "/images/comptiaCert.png",
		Bullets: []string{
			"Certified in agile project management methodology",
		},
	},
}
