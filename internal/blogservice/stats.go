package blogservice

// TotalLikes sums the likes of all blogs.
func TotalLikes(blogs []Blog) int {
	total := 0
	for _, b := range blogs {
		total += b.Likes
	}
	return total
}

// FavoriteBlog returns the blog with the most likes; the earliest one wins a tie.
func FavoriteBlog(blogs []Blog) *Blog {
	if len(blogs) == 0 {
		return nil
	}

	favorite := blogs[0]
	for _, b := range blogs[1:] {
		if b.Likes > favorite.Likes {
			favorite = b
		}
	}

	return &favorite
}

// MostBlogs returns the author with the most blogs. The first author whose
// running count exceeds the current leader takes the lead.
func MostBlogs(blogs []Blog) *AuthorBlogs {
	if len(blogs) == 0 {
		return nil
	}

	counts := make(map[string]int)
	leader := AuthorBlogs{Author: blogs[0].Author, Blogs: 1}

	for _, b := range blogs {
		counts[b.Author]++
		if counts[b.Author] > leader.Blogs {
			leader = AuthorBlogs{Author: b.Author, Blogs: counts[b.Author]}
		}
	}

	return &leader
}

// MostLikes returns the author whose blogs have the most likes in total.
func MostLikes(blogs []Blog) *AuthorLikes {
	if len(blogs) == 0 {
		return nil
	}

	sums := make(map[string]int)
	leader := AuthorLikes{Author: blogs[0].Author, Likes: blogs[0].Likes}

	for _, b := range blogs {
		sums[b.Author] += b.Likes
		if sums[b.Author] > leader.Likes {
			leader = AuthorLikes{Author: b.Author, Likes: sums[b.Author]}
		}
	}

	return &leader
}

func computeStats(blogs []Blog) *Stats {
	return &Stats{
		TotalLikes:   TotalLikes(blogs),
		FavoriteBlog: FavoriteBlog(blogs),
		MostBlogs:    MostBlogs(blogs),
		MostLikes:    MostLikes(blogs),
	}
}
