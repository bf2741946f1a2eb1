package detect

import (
	"encoding/json"
	"strings"
)

// OSKind identifies the target operating system.
type OSKind int

// Supported operating systems. OSUnknownSystemV and OSUnknownUnix are the
// generic fallbacks used when only POSIX or System V signals are present.
const (
	OSUnknown OSKind = iota
	OS386BSD
	OSAIX
	OSAmix
	OSAndroid
	OSBeOS
	OSDragonFly
	OSFreeBSD
	OSHurd
	OSHPUX
	OSIllumos
	OSIOS
	OSIPhoneSimulator
	OSIRIX
	OSLinux
	OSMacCatalyst
	OSMacOS
	OSMinix
	OSMSDOS
	OSNetBSD
	OSNeXTSTEP
	OSOpenBSD
	OSOS2
	OSPlan9
	OSSerenity
	OSSolaris
	OSSunOS
	OSWindows
	OSUnknownSystemV
	OSUnknownUnix
)

// Groups is the set of generic families an operating system belongs to.
type Groups uint8

// Generic operating system groups.
const (
	GroupUnix Groups = 1 << iota
	GroupBSD
	GroupSun
	GroupApple
)

var groupIDs = []struct {
	group Groups
	id    string
}{
	{GroupUnix, "GENERIC_UNIX"},
	{GroupBSD, "GENERIC_BSD"},
	{GroupSun, "GENERIC_SUN"},
	{GroupApple, "GENERIC_APPLE"},
}

// Has reports whether every group in other is also in g.
func (g Groups) Has(other Groups) bool {
	return g&other == other
}

// IDs returns the identifiers of the groups in g, e.g. ["GENERIC_UNIX"].
func (g Groups) IDs() []string {
	ids := make([]string, 0, len(groupIDs))
	for _, entry := range groupIDs {
		if g.Has(entry.group) {
			ids = append(ids, entry.id)
		}
	}
	return ids
}

// String joins the group identifiers with "|".
func (g Groups) String() string {
	if g == 0 {
		return "NONE"
	}
	return strings.Join(g.IDs(), "|")
}

// MarshalJSON renders the groups as a list of identifiers.
func (g Groups) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.IDs())
}

// MarshalYAML renders the groups as a list of identifiers.
func (g Groups) MarshalYAML() (interface{}, error) {
	return g.IDs(), nil
}

const (
	unixBSD = GroupUnix | GroupBSD
	unixSun = GroupUnix | GroupSun
)

var osDescriptors = [...]descriptor{
	OSUnknown:         {id: "UNKNOWN", name: UnknownName},
	OS386BSD:          {id: "386BSD", name: "386BSD", groups: unixBSD},
	OSAIX:             {id: "AIX", name: "AIX", groups: GroupUnix},
	OSAmix:            {id: "AMIX", name: "Amiga Unix", groups: GroupUnix},
	OSAndroid:         {id: "ANDROID", name: "Android", groups: GroupUnix},
	OSBeOS:            {id: "BEOS", name: "BeOS", groups: GroupUnix},
	OSDragonFly:       {id: "DRAGONFLY", name: "DragonFly BSD", groups: unixBSD},
	OSFreeBSD:         {id: "FREEBSD", name: "FreeBSD", groups: unixBSD},
	OSHurd:            {id: "HURD", name: "GNU/Hurd", groups: GroupUnix},
	OSHPUX:            {id: "HPUX", name: "HP-UX", groups: GroupUnix},
	OSIllumos:         {id: "ILLUMOS", name: "illumos", groups: unixSun},
	OSIOS:             {id: "IOS", name: "iOS", groups: GroupApple},
	OSIPhoneSimulator: {id: "IPHONE_SIMULATOR", name: "IPhone Simulator", groups: GroupApple},
	OSIRIX:            {id: "IRIX", name: "IRIX", groups: GroupUnix},
	OSLinux:           {id: "LINUX", name: "Linux", groups: GroupUnix},
	OSMacCatalyst:     {id: "MACCATALYST", name: "Mac Catalyst", groups: GroupApple},
	OSMacOS:           {id: "MACOS", name: "MacOS", groups: GroupApple | GroupUnix},
	OSMinix:           {id: "MINIX", name: "MINIX", groups: GroupUnix},
	OSMSDOS:           {id: "MSDOS", name: "MS-DOS"},
	OSNetBSD:          {id: "NETBSD", name: "NetBSD", groups: unixBSD},
	OSNeXTSTEP:        {id: "NEXTSTEP", name: "NeXTSTEP", groups: GroupUnix},
	OSOpenBSD:         {id: "OPENBSD", name: "OpenBSD", groups: unixBSD},
	OSOS2:             {id: "OS2", name: "OS/2"},
	OSPlan9:           {id: "PLAN9", name: "Plan 9", groups: GroupUnix},
	OSSerenity:        {id: "SERENITY", name: "SerenityOS", groups: GroupUnix},
	OSSolaris:         {id: "SOLARIS", name: "Solaris", groups: unixSun},
	OSSunOS:           {id: "SUNOS", name: "SunOS", groups: unixSun},
	OSWindows:         {id: "WINDOWS", name: "Windows"},
	OSUnknownSystemV:  {id: "UNKNOWN_SYSV", name: "Unknown System V Unix", groups: GroupUnix},
	OSUnknownUnix:     {id: "UNKNOWN_UNIX", name: "Unknown Unix", groups: GroupUnix},
}

// String returns the display name, e.g. "DragonFly BSD".
func (k OSKind) String() string {
	return describe(osDescriptors[:], int(k)).name
}

// ID returns the identifier form, e.g. "DRAGONFLY".
func (k OSKind) ID() string {
	return describe(osDescriptors[:], int(k)).id
}

// Groups returns the static group membership of k.
func (k OSKind) Groups() Groups {
	return describe(osDescriptors[:], int(k)).groups
}

// OSKinds lists every operating system kind, excluding Unknown.
func OSKinds() []OSKind {
	kinds := make([]OSKind, 0, len(osDescriptors)-1)
	for k := OS386BSD; int(k) < len(osDescriptors); k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// OSInfo is the resolved operating system category. Groups always equals
// Kind.Groups(); LinuxCompatible is true for Linux and, unless disabled by
// Options.AndroidIsNotLinux, for Android.
type OSInfo struct {
	Kind            OSKind `json:"kind" yaml:"kind"`
	Name            string `json:"name" yaml:"name"`
	Groups          Groups `json:"groups" yaml:"groups"`
	LinuxCompatible bool   `json:"linux_compatible" yaml:"linux_compatible"`
}

// IsUnix reports membership of the generic Unix group.
func (o OSInfo) IsUnix() bool { return o.Groups.Has(GroupUnix) }

// IsBSD reports membership of the generic BSD group.
func (o OSInfo) IsBSD() bool { return o.Groups.Has(GroupBSD) }

// IsSun reports membership of the generic Sun group.
func (o OSInfo) IsSun() bool { return o.Groups.Has(GroupSun) }

// IsApple reports membership of the generic Apple group.
func (o OSInfo) IsApple() bool { return o.Groups.Has(GroupApple) }

// osRule resolves one candidate; ok is false when it does not apply.
type osRule func(c *classifier) (kind OSKind, ok bool)

func osWhen(kind OSKind, signals ...string) osRule {
	return func(c *classifier) (OSKind, bool) {
		return kind, c.set.Any(signals...)
	}
}

// osCandidates are tried in order; the first rule that applies decides.
var osCandidates = []osRule{
	osWhen(OS386BSD, "____386BSD____", "__386BSD__"),
	osWhen(OSAIX, "_AIX", "__TOS_AIX__"),
	osWhen(OSAmix, "AMIX"),
	osWhen(OSAndroid, "__ANDROID__"),
	osWhen(OSBeOS, "__BEOS__"),
	osWhen(OSDragonFly, "__DragonFly__"),
	osWhen(OSFreeBSD, "__FreeBSD__", "__FreeBSD_kernel__"),
	osWhen(OSHurd, "__gnu_hurd__"),
	osWhen(OSHPUX, "_hpux", "hpux", "__hpux"),
	osWhen(OSIRIX, "sgi", "__sgi"),
	osWhen(OSLinux, "__linux__", "linux", "__linux"),
	(*classifier).resolveApple,
	osWhen(OSMinix, "__minix"),
	osWhen(OSMSDOS, "MSDOS", "__MSDOS__", "_MSDOS", "__DOS__"),
	osWhen(OSNetBSD, "__NetBSD__"),
	osWhen(OSNeXTSTEP, "NeXT"),
	osWhen(OSOpenBSD, "__OpenBSD__"),
	osWhen(OSOS2, "OS2", "_OS2", "__OS2__", "__TOS_OS2__"),
	osWhen(OSPlan9, "EPLAN9"),
	osWhen(OSSerenity, "__serenity__"),
	(*classifier).resolveSun,
	osWhen(OSWindows, "_WIN16", "_WIN32", "_WIN64", "__WIN32__", "__TOS_WIN__", "__WINDOWS__"),
}

var (
	systemVSignals = []string{"__sysv__", "__SVR4", "__svr4__", "_SYSTYPE_SVR4"}
	posixSignals   = []string{"__unix__", "__unix", "unix", "_POSIX_VERSION", "_XOPEN_VERSION", "_XOPEN_UNIX"}
)

func (c *classifier) resolveOS() OSInfo {
	kind, ok := c.matchOS()
	if !ok {
		switch {
		case c.set.Any(systemVSignals...):
			kind = OSUnknownSystemV
		case c.set.Any(posixSignals...):
			kind = OSUnknownUnix
		default:
			c.diagnose(CategoryOS, "Unknown operating system")
			kind = OSUnknown
		}
	}

	return OSInfo{
		Kind:            kind,
		Name:            kind.String(),
		Groups:          kind.Groups(),
		LinuxCompatible: kind == OSLinux || (kind == OSAndroid && !c.opts.AndroidIsNotLinux),
	}
}

func (c *classifier) matchOS() (OSKind, bool) {
	for _, candidate := range osCandidates {
		if kind, ok := candidate(c); ok {
			return kind, true
		}
	}
	return OSUnknown, false
}

// resolveApple handles the Apple family. __APPLE__ with __MACH__ is desktop
// MacOS; a bare __APPLE__ needs TargetConditionals to tell device,
// simulator and Catalyst builds apart.
func (c *classifier) resolveApple() (OSKind, bool) {
	if (c.set.Defined("__APPLE__") && c.set.Defined("__MACH__")) || c.set.Any("macintosh", "Macintosh") {
		return OSMacOS, true
	}
	if !c.set.Defined("__APPLE__") || c.opts.NoExternalIncludes {
		return OSUnknown, false
	}

	tc := c.targetConditionals()
	switch {
	case tc.IsSimulator():
		return OSIPhoneSimulator, true
	case tc.IsMacCatalyst():
		return OSMacCatalyst, true
	case tc.IsDevicePhone():
		return OSIOS, true
	}

	c.diagnose(CategoryOS, "Unknown Apple target")
	return OSUnknown, false
}

// resolveSun fans the shared Sun signal out to illumos, Solaris or SunOS.
func (c *classifier) resolveSun() (OSKind, bool) {
	if !c.set.Any("sun", "__sun") {
		return OSUnknown, false
	}
	switch {
	case c.set.Defined("__illumos__"):
		return OSIllumos, true
	case c.set.Any("__SVR4", "__svr4__"):
		return OSSolaris, true
	default:
		return OSSunOS, true
	}
}
