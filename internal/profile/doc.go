// Package profile is the controller of one profile page.
//
// A Page owns everything the page needs: the resolved identity, the live
// model.ProfileState the load flows write into, the sort state, the
// relation fetcher with its cache, the followers/following browser and the
// tip action. Nothing is global; two Pages never share state.
package profile
