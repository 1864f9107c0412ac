// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package uploads stores party logos on local disk and serves them back.

Files are saved as <uuid><ext> in the upload directory, so concurrent
uploads of the same original name never collide. Only .jpg, .jpeg and
.png are accepted.

	files, err := uploads.New("./uploads", 5<<20)
	ref, err := files.Save(file, header.Filename) // "/uploads/2f1c...9a.png"
	mux.Handle("GET /uploads/{filename}", files.Handler())
*/
package uploads
