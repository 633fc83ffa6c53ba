package main

import "github.com/jbest-eyes/core/internal/models"

var sampleCategories = []models.CategoryModel{
	{Name: "Daily Life", Description: "Everyday experiences and moments", Color: "#48bb78"},
	{Name: "Business Adventures", Description: "Entrepreneurial journeys and insights", Color: "#ed8936"},
	{Name: "Coding Journey", Description: "Programming experiences and learning", Color: "#667eea"},
	{Name: "Parenting Moments", Description: "Experiences raising children", Color: "#f56565"},
	{Name: "Nature Photography", Description: "Photos and stories from nature", Color: "#38b2ac"},
	{Name: "Personal Growth", Description: "Self-improvement and reflection", Color: "#9f7aea"},
}

type samplePost struct {
	title    string
	category string
	excerpt  string
	tags     []string
	content  string
}

var samplePosts = []samplePost{
	{
		title:    "Welcome to JBest Eyes",
		category: "Daily Life",
		excerpt:  "An introduction to a blog about everyday life, small businesses, code and raising kids.",
		tags:     []string{"welcome", "introduction", "blog"},
		content: `This is the first entry of a personal journal kept in public.

Expect notes from ordinary days, a running log of side businesses, the occasional programming write-up, and honest stories from family life. Some posts will be long, most will be short.

Thanks for stopping by.`,
	},
	{
		title:    "Starting a Small Business Experiment",
		category: "Business Adventures",
		excerpt:  "Launching a tiny product with a minimal budget and a plan to learn from every customer.",
		tags:     []string{"business", "startup", "experiment"},
		content: `After a few months of sketching ideas in a notebook, the first experiment is live.

The plan is simple:
- spend as little as possible up front
- ship a minimal version within a month
- talk to every early customer
- keep a record of what worked and what did not

Updates will land here as the numbers come in.`,
	},
	{
		title:    "Building This Blog's Backend",
		category: "Coding Journey",
		excerpt:  "Notes on designing a small REST API with posts, categories, comments and image uploads.",
		tags:     []string{"go", "api", "mongodb", "learning"},
		content: `The server behind this site is a small REST API. Posts belong to a category, categories keep a running post total, and comments live inside the post document.

A few lessons so far:
- keep validation in one place so every endpoint reports errors the same way
- counters drift, so keep a way to recount them
- uploads deserve strict limits on size and type

Next step is adding a proper search page.`,
	},
	{
		title:    "Screen Time Rules That Actually Stuck",
		category: "Parenting Moments",
		tags:     []string{"parenting", "technology", "family"},
		content: `Working with computers all day makes it awkward to ask the kids to put their tablets down. What finally worked was trading limits for projects: drawing apps, simple games we build together, and one evening a week where every screen in the house stays off, including mine.`,
	},
	{
		title:    "Morning Light at the Lake",
		category: "Nature Photography",
		tags:     []string{"photography", "nature", "sunrise"},
		content: `Got to the shore twenty minutes before sunrise. The fog sat low over the water and lifted just as the first light hit the far bank. A handful of frames from that short window are the best shots of the year so far.`,
	},
}
