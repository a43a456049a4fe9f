// Package utils holds small helpers shared by the tool packages: JSON over
// HTTP with span events ([DoJSON], [Do]), response body cleanup
// ([CloseWithLog]), text helpers and [Ptr].
package utils
