// Package pages holds the board's templ components.
package pages

import "strconv"

const timeLayout = "2006-01-02 15:04"

// PostURL is the canonical page of a post.
func PostURL(id int64) string {
	return "/post/" + strconv.FormatInt(id, 10)
}

func editURL(id int64) string {
	return "/edit/" + strconv.FormatInt(id, 10)
}

func deleteURL(id int64) string {
	return "/delete/" + strconv.FormatInt(id, 10)
}

func commentURL(id int64) string {
	return "/post/comment/" + strconv.FormatInt(id, 10)
}

func likeURL(id int64) string {
	return "/post/like/" + strconv.FormatInt(id, 10)
}
