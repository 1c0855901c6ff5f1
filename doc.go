// Package psn is a Go client for the PlayStation Network's undocumented
// mobile API: profiles, presence, friends, trophies, play-time statistics,
// messaging groups, owned games, and universal search.
//
// Authentication starts from an NPSSO token taken once from a signed-in PSN
// browser session. The client exchanges it for bearer credentials and
// refreshes them silently; callers never handle tokens after construction:
//
//	client, err := psn.NewClient(&psn.Config{NpssoToken: npsso})
//	if err != nil {
//		log.Fatal(err)
//	}
//	user, err := client.User(ctx, psn.ByOnlineID("VaultTec_Trading"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	profile, err := user.Profile(ctx)
//
// Listings are exposed as lazy pull iterators. Each Next call may perform a
// page fetch; the sequence ends with ErrIteratorDone:
//
//	titles := user.TrophyTitles(nil)
//	for {
//		title, err := titles.Next(ctx)
//		if errors.Is(err, psn.ErrIteratorDone) {
//			break
//		}
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Println(title.TitleName)
//	}
//
// Failures carry a kind from pkg/errors; branch on it with errors.As or
// the KindOf/HasKind helpers rather than string matching.
package psn
