package blogservice

// TotalLikes sums the likes of blogs.
func TotalLikes(blogs []Blog) int {
	total := 0
	for _, b := range blogs {
		total += b.Likes
	}

	return total
}

// FavoriteBlog returns a copy of the blog with the most likes, or nil for an
// empty slice. The earliest blog wins a tie.
func FavoriteBlog(blogs []Blog) *Blog {
	if len(blogs) == 0 {
		return nil
	}

	best := blogs[0]
	for _, b := range blogs[1:] {
		if b.Likes > best.Likes {
			best = b
		}
	}

	return &best
}

// MostBlogs returns the author with the most blogs, or nil for an empty
// slice. Authors are compared by exact string equality. On a tie the author
// that appears first in blogs wins.
func MostBlogs(blogs []Blog) *AuthorBlogs {
	g, ok := maxGroup(groupByAuthor(blogs), func(g authorGroup) int { return g.blogs })
	if !ok {
		return nil
	}

	return &AuthorBlogs{Author: g.author, Blogs: g.blogs}
}

// MostLikes returns the author whose blogs have the most likes in total, or
// nil for an empty slice. Ties resolve like MostBlogs.
func MostLikes(blogs []Blog) *AuthorLikes {
	g, ok := maxGroup(groupByAuthor(blogs), func(g authorGroup) int { return g.likes })
	if !ok {
		return nil
	}

	return &AuthorLikes{Author: g.author, Likes: g.likes}
}

// ComputeStats runs every aggregate over blogs.
func ComputeStats(blogs []Blog) *Stats {
	return &Stats{
		TotalLikes:   TotalLikes(blogs),
		FavoriteBlog: FavoriteBlog(blogs),
		MostBlogs:    MostBlogs(blogs),
		MostLikes:    MostLikes(blogs),
	}
}

type authorGroup struct {
	author string
	blogs  int
	likes  int
}

// groupByAuthor groups blogs by author, keeping the order in which each
// author first appears.
func groupByAuthor(blogs []Blog) []authorGroup {
	index := make(map[string]int)
	groups := make([]authorGroup, 0)

	for _, b := range blogs {
		i, ok := index[b.Author]
		if !ok {
			i = len(groups)
			index[b.Author] = i
			groups = append(groups, authorGroup{author: b.Author})
		}
		groups[i].blogs++
		groups[i].likes += b.Likes
	}

	return groups
}

func maxGroup(groups []authorGroup, value func(authorGroup) int) (authorGroup, bool) {
	if len(groups) == 0 {
		return authorGroup{}, false
	}

	best := groups[0]
	for _, g := range groups[1:] {
		if value(g) > value(best) {
			best = g
		}
	}

	return best, true
}
