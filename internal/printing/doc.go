// Package printing turns queued sheets into printer passes.
//
// A send pass groups the queue into jobs (12x18 sheets pair two-up, other
// sizes print alone), replaces the job tickets the Photoshop worker picks
// up, and on the primary printer records each job in the print history and
// commits its planned footage to the paper ledger. Reprints replay a logged
// job as a fresh ticket; failures credit unused footage back to the roll.
package printing
