/*
Package drilldown coordinates the Users → Albums → Photos selection view.

A Controller owns the selected user and album and the three collections
loaded for them. Selecting a user loads that user's albums, and selecting an
album loads its photos. Every load runs on its own goroutine. Only the most
recently issued load of each kind may change state. Older loads are cancelled
and their results are dropped.
*/
package drilldown
