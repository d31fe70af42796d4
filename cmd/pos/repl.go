package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"sejour-pms/internal/pos"
)

const help = `Commandes:
  sejours [recherche]     séjours actifs
  choisir <id>            sélectionner un séjour
  etablissements          établissements actifs
  extras [etab_id]        catalogue
  ajouter <extra_id> [n]  ajouter au panier
  qte <ligne> <+/-n>      modifier une quantité
  retirer <ligne>         retirer une ligne
  vider                   retirer les lignes non enregistrées
  panier                  afficher le panier
  enregistrer             enregistrer le panier
  cloturer                clôturer le séjour
  facture                 télécharger la facture
  envoyer [email]         envoyer la facture par email
  quitter
`

type repl struct {
	in         *bufio.Scanner
	out        io.Writer
	session    *pos.Session
	invoiceDir string
}

func newREPL(in io.Reader, out io.Writer, api pos.API, invoiceDir string) *repl {
	r := &repl{
		in:         bufio.NewScanner(in),
		out:        out,
		invoiceDir: invoiceDir,
	}
	r.session = pos.NewSession(api, r.confirm)
	return r
}

func (r *repl) confirm(prompt string) bool {
	fmt.Fprintf(r.out, "%s [o/N] ", prompt)
	if !r.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(r.in.Text()))
	return answer == "o" || answer == "oui" || answer == "y"
}

func (r *repl) run() error {
	fmt.Fprint(r.out, help)
	for {
		fmt.Fprint(r.out, "> ")
		if !r.in.Scan() {
			return r.in.Err()
		}
		fields := strings.Fields(r.in.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quitter" || fields[0] == "q" {
			return nil
		}
		if err := r.exec(context.Background(), fields[0], fields[1:]); err != nil {
			fmt.Fprintf(r.out, "Erreur: %v\n", err)
		}
	}
}

func int32Arg(args []string, i int, name string) (int32, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("%s manquant", name)
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(args[i], "+"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s invalide: %s", name, args[i])
	}
	return int32(n), nil
}

// lineArg reads a 1-based line number and returns the cart index.
func lineArg(args []string) (int, error) {
	n, err := int32Arg(args, 0, "ligne")
	return int(n) - 1, err
}

func (r *repl) exec(ctx context.Context, cmd string, args []string) error {
	s := r.session
	switch cmd {
	case "aide", "help":
		fmt.Fprint(r.out, help)

	case "sejours":
		if _, err := s.LoadActiveStays(ctx); err != nil {
			return err
		}
		tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNUMERO\tCLIENT\tARRIVEE\tDEPART")
		for _, st := range s.Search(strings.Join(args, " ")) {
			fmt.Fprintf(tw, "%d\t%s\t%s %s\t%s\t%s\n", st.ID, st.NumeroReservation, st.ContactPrenom, st.ContactNom, st.DateArrivee, st.DateDepart)
		}
		return tw.Flush()

	case "choisir":
		id, err := int32Arg(args, 0, "id")
		if err != nil {
			return err
		}
		if err := s.SelectStay(ctx, id); err != nil {
			return err
		}
		return r.render()

	case "etablissements":
		list, err := s.LoadEtablissements(ctx)
		if err != nil {
			return err
		}
		for _, e := range list {
			fmt.Fprintf(r.out, "%d  %s (%s)\n", e.ID, e.NomEtablissement, e.Ville)
		}

	case "extras":
		if len(args) > 0 {
			id, err := int32Arg(args, 0, "etab_id")
			if err != nil {
				return err
			}
			if _, err := s.LoadExtras(ctx, id); err != nil {
				return err
			}
		}
		tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tEXTRA\tPRIX\tUNITE")
		for _, x := range s.Catalog() {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", x.ID, x.Nom, x.PrixUnitaire, x.UniteMesure)
		}
		return tw.Flush()

	case "ajouter":
		id, err := int32Arg(args, 0, "extra_id")
		if err != nil {
			return err
		}
		n := int32(1)
		if len(args) > 1 {
			if n, err = int32Arg(args, 1, "quantité"); err != nil {
				return err
			}
		}
		for i := int32(0); i < n; i++ {
			if err := s.AddToCart(id); err != nil {
				return err
			}
		}
		return r.render()

	case "qte":
		idx, err := lineArg(args)
		if err != nil {
			return err
		}
		delta, err := int32Arg(args, 1, "delta")
		if err != nil {
			return err
		}
		res, err := s.UpdateQuantity(ctx, idx, delta)
		if err != nil {
			return err
		}
		r.report(res)
		return r.render()

	case "retirer":
		idx, err := lineArg(args)
		if err != nil {
			return err
		}
		res, err := s.RemoveFromCart(ctx, idx)
		if err != nil {
			return err
		}
		r.report(res)
		return r.render()

	case "vider":
		res, err := s.ClearCart()
		if err != nil {
			return err
		}
		r.report(res)
		return r.render()

	case "panier":
		return r.render()

	case "enregistrer":
		n, err := s.Save(ctx)
		if err != nil {
			_ = r.render()
			return err
		}
		fmt.Fprintf(r.out, "%d modification(s) enregistrée(s)\n", n)
		return r.render()

	case "cloturer":
		res, err := s.CloseStay(ctx)
		if errors.Is(err, pos.ErrPendingChanges) {
			return fmt.Errorf("enregistrez le panier avant de clôturer")
		}
		if err != nil {
			return err
		}
		r.report(res)
		return r.render()

	case "facture":
		inv, err := s.GenerateInvoice(ctx)
		if err != nil {
			return err
		}
		path := filepath.Join(r.invoiceDir, filepath.Base(inv.Filename))
		if err := os.WriteFile(path, inv.PDF, 0o644); err != nil {
			return fmt.Errorf("failed to write invoice: %w", err)
		}
		fmt.Fprintf(r.out, "Facture enregistrée: %s\n", path)

	case "envoyer":
		email := ""
		if len(args) > 0 {
			email = args[0]
		}
		to, err := s.SendInvoice(ctx, email)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Facture envoyée à %s\n", to)

	default:
		return fmt.Errorf("commande inconnue: %s (tapez aide)", cmd)
	}
	return nil
}

func (r *repl) report(res pos.Result) {
	switch res {
	case pos.Removed:
		fmt.Fprintln(r.out, "Ligne retirée")
	case pos.Cancelled:
		fmt.Fprintln(r.out, "Annulé")
	}
}

func enabled(ok bool) string {
	if ok {
		return ""
	}
	return " (désactivé)"
}

// render prints the cart view. Disabled actions are marked.
func (r *repl) render() error {
	v := r.session.View()
	if v.SejourID == 0 {
		fmt.Fprintln(r.out, "Aucun séjour sélectionné")
		return nil
	}

	state := "actif"
	if v.Closed {
		state = "clôturé"
	}
	fmt.Fprintf(r.out, "Séjour %s, %s [%s]\n", v.Numero, v.Client, state)

	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tEXTRA\tQTE\tPRIX\tTOTAL\tETAT")
	for _, l := range v.Lines {
		etat := "non enregistré"
		switch {
		case l.Changed:
			etat = "modifié"
		case l.Saved:
			etat = "enregistré"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d %s\t%s\t%s\t%s\n", l.Index+1, l.Nom, l.Quantite, l.UniteMesure, l.PrixUnitaire, l.Total, etat)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Sous-total: %s  Total: %s\n", v.Subtotal, v.Total)
	fmt.Fprintf(r.out, "Actions: ajouter%s, qte/retirer%s, enregistrer%s, cloturer%s, facture%s\n",
		enabled(v.CanAddExtras), enabled(len(v.Lines) > 0 && v.Lines[0].CanRemove), enabled(v.CanSave),
		enabled(v.CanClose), enabled(v.CanGenerateInvoice))
	return nil
}
